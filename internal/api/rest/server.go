// Package rest provides functionality for initializing a server
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
	"github.com/vzaikin/go-bank-withdraw/internal/api/rest/handlers"
	"github.com/vzaikin/go-bank-withdraw/internal/api/rest/middleware"
	"github.com/vzaikin/go-bank-withdraw/internal/config"
	"github.com/vzaikin/go-bank-withdraw/internal/notifier/v1/kafka"
	"github.com/vzaikin/go-bank-withdraw/internal/service/withdraw/v1/processor"
	"github.com/vzaikin/go-bank-withdraw/internal/storage/v1/inpsql"
	"github.com/vzaikin/go-bank-withdraw/internal/validation"
)

// InitServer returns a http.Server object ready to be listening and serving.
func InitServer(ctx context.Context, cfg *config.Config, log *zerolog.Logger) (server *http.Server, err error) {
	// initialize storage
	storage, err := inpsql.InitStorage(ctx, cfg.StorageConfig, log)
	if err != nil {
		return nil, err
	}

	// initialize event publisher
	publisher, err := kafka.InitPublisher(cfg.NotifierConfig, log)
	if err != nil {
		return nil, err
	}

	// initialize main service
	mainService, err := processor.InitService(storage, publisher, log)
	if err != nil {
		return nil, err
	}

	// initialize request validator
	validator, err := validation.NewValidator()
	if err != nil {
		return nil, err
	}

	withdrawalHandler, err := handlers.InitHandlers(mainService, validator, cfg.ServerConfig, log)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestIDHandle)
	r.Post("/bank/withdraw/", withdrawalHandler.HandleWithdraw())

	srv := &http.Server{
		Addr:         cfg.ServerConfig.ServerAddress,
		Handler:      r,
		IdleTimeout:  60 * time.Second,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	srv.RegisterOnShutdown(func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("closing event publisher failed")
		}
		if err := storage.DB.Close(); err != nil {
			log.Error().Err(err).Msg("closing PSQL DB connection failed")
		}
	})
	return srv, nil
}
