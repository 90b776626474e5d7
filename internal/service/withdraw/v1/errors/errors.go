package errors

import (
	"fmt"
)

type (
	ServiceFoundNilArgument struct {
		Msg string
	}
	InsufficientFundsError struct {
		AccountID int64
	}
)

func (e *ServiceFoundNilArgument) Error() string {
	return e.Msg
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("account %d: insufficient funds", e.AccountID)
}
