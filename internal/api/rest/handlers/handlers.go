// Package handlers provides API endpoint handling functionality.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	handlersErrors "github.com/vzaikin/go-bank-withdraw/internal/api/rest/errors"
	"github.com/vzaikin/go-bank-withdraw/internal/api/rest/middleware"
	"github.com/vzaikin/go-bank-withdraw/internal/config"
	"github.com/vzaikin/go-bank-withdraw/internal/models/modeldto"
	"github.com/vzaikin/go-bank-withdraw/internal/models/modelwithdraw"
	"github.com/vzaikin/go-bank-withdraw/internal/service/withdraw/v1"
	storageErrors "github.com/vzaikin/go-bank-withdraw/internal/storage/v1/errors"
	"github.com/vzaikin/go-bank-withdraw/internal/validation"
)

// handleTimeout must cover the row-locked scope including one publish
// attempt; the publish carries its own tighter timeout from config.
const handleTimeout = 15 * time.Second

// Handler defines attributes of a struct available to its methods.
type Handler struct {
	service      withdraw.Processor
	validator    *validation.Validator
	serverConfig *config.ServerConfig
	log          *zerolog.Logger
}

// InitHandlers initializes a handler object.
func InitHandlers(mainService withdraw.Processor, validator *validation.Validator, serverConfig *config.ServerConfig, log *zerolog.Logger) (*Handler, error) {
	if mainService == nil {
		return nil, &handlersErrors.HandlersFoundNilArgument{Msg: "nil processor was passed to handlers initializer"}
	}
	if validator == nil {
		return nil, &handlersErrors.HandlersFoundNilArgument{Msg: "nil validator was passed to handlers initializer"}
	}
	return &Handler{service: mainService, validator: validator, serverConfig: serverConfig, log: log}, nil
}

// HandleWithdraw processes withdrawal requests.
func (h *Handler) HandleWithdraw() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), handleTimeout)
		defer cancel()
		if r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "Invalid Content-Type", http.StatusBadRequest)
			return
		}
		b, err := ioutil.ReadAll(r.Body)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleWithdraw failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		var request modeldto.WithdrawalRequest
		err = json.Unmarshal(b, &request)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleWithdraw failed")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if fieldErrors := h.validator.ValidateWithdrawal(request); len(fieldErrors) != 0 {
			h.log.Info().Msg(fmt.Sprintf("malformed withdrawal request detected: %v", fieldErrors))
			h.writeJSON(w, http.StatusBadRequest, fieldErrors)
			return
		}
		amount, err := decimal.NewFromString(request.Amount)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleWithdraw failed")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Info().Msg(fmt.Sprintf("new withdrawal request detected for account %d (request %s)", request.AccountID, middleware.GetRequestID(ctx)))
		outcome, err := h.service.Withdraw(ctx, request.AccountID, amount)
		if err != nil {
			h.log.Error().Err(err).Msg("HandleWithdraw failed")
			var notFoundError *storageErrors.NotFoundError
			var contextTimeoutExceededError *storageErrors.ContextTimeoutExceededError
			if errors.As(err, &notFoundError) {
				w.WriteHeader(http.StatusNotFound)
			} else if errors.As(err, &contextTimeoutExceededError) {
				http.Error(w, err.Error(), http.StatusGatewayTimeout)
			} else {
				h.writeJSON(w, http.StatusInternalServerError, modeldto.WithdrawalError{Error: modelwithdraw.OutcomeFailed.Message()})
			}
			return
		}
		switch outcome {
		case modelwithdraw.OutcomeSuccessful:
			h.writeJSON(w, http.StatusOK, modeldto.WithdrawalSuccess{Message: outcome.Message()})
		case modelwithdraw.OutcomeInsufficientFunds:
			h.writeJSON(w, http.StatusBadRequest, modeldto.WithdrawalError{Error: outcome.Message()})
		default:
			h.writeJSON(w, http.StatusInternalServerError, modeldto.WithdrawalError{Error: outcome.Message()})
		}
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	resBody, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Msg("response marshalling failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(resBody)
}
