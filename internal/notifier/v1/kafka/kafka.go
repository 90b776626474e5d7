// Package kafka implements a Kafka-backed withdrawal event publisher.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/vzaikin/go-bank-withdraw/internal/config"
	"github.com/vzaikin/go-bank-withdraw/internal/models/modelwithdraw"
	notifierErrors "github.com/vzaikin/go-bank-withdraw/internal/notifier/v1/errors"
)

// Publisher defines attributes of a struct available to its methods.
type Publisher struct {
	writer         *kafka.Writer
	notifierConfig *config.NotifierConfig
	log            *zerolog.Logger
}

// InitPublisher initializes a Kafka writer for withdrawal events.
func InitPublisher(notifierConfig *config.NotifierConfig, log *zerolog.Logger) (*Publisher, error) {
	if notifierConfig == nil {
		return nil, &notifierErrors.NotifierFoundNilArgument{Msg: "nil config was passed to publisher initializer"}
	}
	brokers := strings.Split(notifierConfig.Brokers, ",")
	if len(brokers) == 0 || brokers[0] == "" {
		return nil, &notifierErrors.NotifierFoundNilArgument{Msg: "no brokers were passed to publisher initializer"}
	}
	// RequireAll so that a confirmed publish really means the bus accepted
	// the event; the commit decision upstream depends on it.
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        notifierConfig.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	log.Info().Msg("kafka event publisher initialized")
	return &Publisher{writer: writer, notifierConfig: notifierConfig, log: log}, nil
}

// Publish sends one withdrawal event, bounded by the configured timeout. The
// message key is the account id so per-account events stay ordered.
func (p *Publisher) Publish(ctx context.Context, event modelwithdraw.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return &notifierErrors.PublishError{Err: err}
	}
	ctxTO, cancel := context.WithTimeout(ctx, p.notifierConfig.PublishTimeout)
	defer cancel()
	err = p.writer.WriteMessages(ctxTO, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.AccountID, 10)),
		Value: body,
	})
	if err != nil {
		p.log.Error().Err(err).Msg(fmt.Sprintf("event publishing failed for account %d", event.AccountID))
		return &notifierErrors.PublishError{Err: err}
	}
	p.log.Info().Msg(fmt.Sprintf("event published for account %d with status %s", event.AccountID, event.Status))
	return nil
}

// Close releases the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
