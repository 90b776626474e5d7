// Package processor implements the withdrawal transaction coordinator.
package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/vzaikin/go-bank-withdraw/internal/models/modelwithdraw"
	"github.com/vzaikin/go-bank-withdraw/internal/notifier/v1"
	notifierErrors "github.com/vzaikin/go-bank-withdraw/internal/notifier/v1/errors"
	serviceErrors "github.com/vzaikin/go-bank-withdraw/internal/service/withdraw/v1/errors"
	"github.com/vzaikin/go-bank-withdraw/internal/storage/v1"
)

// Processor coordinates the debit and the event publish so that the two stand
// or fall together: a debit becomes durable only when the paired publish was
// confirmed.
type Processor struct {
	storage  storage.AccountStore
	notifier notifier.Notifier
	log      *zerolog.Logger
}

// InitService initializes a withdrawal processing service.
func InitService(st storage.AccountStore, nt notifier.Notifier, log *zerolog.Logger) (*Processor, error) {
	if st == nil {
		return nil, &serviceErrors.ServiceFoundNilArgument{Msg: "nil storage was passed to service initializer"}
	}
	if nt == nil {
		return nil, &serviceErrors.ServiceFoundNilArgument{Msg: "nil notifier was passed to service initializer"}
	}
	processor := &Processor{
		storage:  st,
		notifier: nt,
		log:      log,
	}
	return processor, nil
}

// Withdraw debits the account and publishes the outcome event inside one
// transactional scope. A rejected publish rolls the debit back, so the
// account never ends up debited with nobody told.
func (proc *Processor) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (modelwithdraw.Outcome, error) {
	account, err := proc.storage.GetAccount(ctx, accountID)
	if err != nil {
		return modelwithdraw.OutcomeFailed, err
	}
	if account.Balance.LessThan(amount) {
		proc.log.Info().Msg(fmt.Sprintf("withdrawal rejected for account %d: insufficient funds", accountID))
		return modelwithdraw.OutcomeInsufficientFunds, nil
	}
	proc.log.Info().Msg(fmt.Sprintf("withdrawal attempt for account %d, amount %s", accountID, amount.StringFixed(2)))
	err = proc.storage.WithinTransaction(ctx, accountID, func(txCtx context.Context) error {
		// re-read under the row lock; the pre-check above may be stale by now
		locked, err := proc.storage.GetAccount(txCtx, accountID)
		if err != nil {
			return err
		}
		if locked.Balance.LessThan(amount) {
			return &serviceErrors.InsufficientFundsError{AccountID: accountID}
		}
		if err := proc.storage.DebitBalance(txCtx, accountID, amount); err != nil {
			return err
		}
		event := modelwithdraw.NewEvent(accountID, amount, modelwithdraw.OutcomeSuccessful)
		return proc.notifier.Publish(txCtx, event)
	})
	if err != nil {
		var insufficientFundsError *serviceErrors.InsufficientFundsError
		var publishError *notifierErrors.PublishError
		if errors.As(err, &insufficientFundsError) {
			proc.log.Info().Msg(fmt.Sprintf("withdrawal rejected for account %d: insufficient funds", accountID))
			return modelwithdraw.OutcomeInsufficientFunds, nil
		}
		if errors.As(err, &publishError) {
			proc.log.Error().Err(err).Msg(fmt.Sprintf("withdrawal rolled back for account %d: event publish failed", accountID))
			return modelwithdraw.OutcomeFailed, err
		}
		proc.log.Error().Err(err).Msg(fmt.Sprintf("withdrawal rolled back for account %d", accountID))
		return modelwithdraw.OutcomeFailed, err
	}
	proc.log.Info().Msg(fmt.Sprintf("withdrawal committed for account %d, amount %s", accountID, amount.StringFixed(2)))
	return modelwithdraw.OutcomeSuccessful, nil
}
