package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzaikin/go-bank-withdraw/internal/models/modeldto"
)

func TestValidateWithdrawal(t *testing.T) {
	validator, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name       string
		request    modeldto.WithdrawalRequest
		wantFields []string
	}{
		{
			name:    "valid request",
			request: modeldto.WithdrawalRequest{AccountID: 42, Amount: "30.00"},
		},
		{
			name:    "minimum amount",
			request: modeldto.WithdrawalRequest{AccountID: 1, Amount: "0.01"},
		},
		{
			name:       "zero amount",
			request:    modeldto.WithdrawalRequest{AccountID: 1, Amount: "0.00"},
			wantFields: []string{"amount"},
		},
		{
			name:       "negative amount",
			request:    modeldto.WithdrawalRequest{AccountID: 1, Amount: "-30.00"},
			wantFields: []string{"amount"},
		},
		{
			name:       "one fractional digit",
			request:    modeldto.WithdrawalRequest{AccountID: 1, Amount: "30.5"},
			wantFields: []string{"amount"},
		},
		{
			name:       "three fractional digits",
			request:    modeldto.WithdrawalRequest{AccountID: 1, Amount: "30.123"},
			wantFields: []string{"amount"},
		},
		{
			name:       "no fractional digits",
			request:    modeldto.WithdrawalRequest{AccountID: 1, Amount: "30"},
			wantFields: []string{"amount"},
		},
		{
			name:       "non-numeric amount",
			request:    modeldto.WithdrawalRequest{AccountID: 1, Amount: "thirty"},
			wantFields: []string{"amount"},
		},
		{
			name:       "missing amount",
			request:    modeldto.WithdrawalRequest{AccountID: 1},
			wantFields: []string{"amount"},
		},
		{
			name:       "zero account id",
			request:    modeldto.WithdrawalRequest{AccountID: 0, Amount: "30.00"},
			wantFields: []string{"account_id"},
		},
		{
			name:       "negative account id",
			request:    modeldto.WithdrawalRequest{AccountID: -5, Amount: "30.00"},
			wantFields: []string{"account_id"},
		},
		{
			name:       "both fields invalid",
			request:    modeldto.WithdrawalRequest{AccountID: 0, Amount: "0.00"},
			wantFields: []string{"account_id", "amount"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fieldErrors := validator.ValidateWithdrawal(tt.request)
			if len(tt.wantFields) == 0 {
				assert.Nil(t, fieldErrors)
				return
			}
			assert.Len(t, fieldErrors, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.NotEmpty(t, fieldErrors[field])
			}
		})
	}
}
