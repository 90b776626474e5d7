// Package modelwithdraw provides types describing the result of a withdrawal attempt.
package modelwithdraw

import (
	"github.com/shopspring/decimal"
)

// Outcome is the tagged result of a withdrawal attempt. The symbolic name
// travels on the bus, the message is shown to API clients; the two are kept
// apart so they can evolve independently.
type Outcome int

const (
	OutcomeSuccessful Outcome = iota
	OutcomeFailed
	OutcomeInsufficientFunds
)

// Name returns the symbolic name of the outcome as used in published events.
func (o Outcome) Name() string {
	switch o {
	case OutcomeSuccessful:
		return "SUCCESSFUL"
	case OutcomeInsufficientFunds:
		return "INSUFFICIENT_FUNDS"
	default:
		return "FAILED"
	}
}

// Message returns the human-readable message of the outcome as used in API responses.
func (o Outcome) Message() string {
	switch o {
	case OutcomeSuccessful:
		return "Withdrawal successful."
	case OutcomeInsufficientFunds:
		return "Insufficient funds for withdrawal."
	default:
		return "Withdrawal failed."
	}
}

// Event is the notification payload published to the message bus once per
// successful-debit attempt.
type Event struct {
	AccountID int64  `json:"accountId"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
}

// NewEvent assembles an event with a precision-preserving string amount.
func NewEvent(accountID int64, amount decimal.Decimal, outcome Outcome) Event {
	return Event{
		AccountID: accountID,
		Amount:    amount.StringFixed(2),
		Status:    outcome.Name(),
	}
}
