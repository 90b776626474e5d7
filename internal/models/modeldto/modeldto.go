// Package modeldto provides types for data interchange between the API and its clients.
package modeldto

type (
	WithdrawalRequest struct {
		AccountID int64  `json:"account_id" validate:"required,min=1"`
		Amount    string `json:"amount" validate:"required,amount"`
	}
	WithdrawalSuccess struct {
		Message string `json:"message"`
	}
	WithdrawalError struct {
		Error string `json:"error"`
	}
)
