package inpsql

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzaikin/go-bank-withdraw/internal/config"
	storageErrors "github.com/vzaikin/go-bank-withdraw/internal/storage/v1/errors"
)

func initTestStorage(t *testing.T) *Storage {
	t.Helper()
	dsn := os.Getenv("DATABASE_URI")
	if dsn == "" {
		t.Skip("DATABASE_URI is not set")
	}
	log := zerolog.Nop()
	st, err := InitStorage(context.Background(), &config.StorageConfig{DatabaseDSN: dsn}, &log)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.DB.Close()
	})
	return st
}

func seedAccount(t *testing.T, st *Storage, balance string) int64 {
	t.Helper()
	var accountID int64
	err := st.DB.QueryRow(`INSERT INTO accounts (balance) VALUES ($1) RETURNING id`, decimal.RequireFromString(balance)).Scan(&accountID)
	require.NoError(t, err)
	return accountID
}

func getBalance(t *testing.T, st *Storage, accountID int64) decimal.Decimal {
	t.Helper()
	entry, err := st.GetAccount(context.Background(), accountID)
	require.NoError(t, err)
	return entry.Balance
}

func TestGetAccount(t *testing.T) {
	st := initTestStorage(t)
	accountID := seedAccount(t, st, "100.00")

	entry, err := st.GetAccount(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, accountID, entry.ID)
	assert.True(t, entry.Balance.Equal(decimal.RequireFromString("100.00")))
}

func TestGetAccountNotFound(t *testing.T) {
	st := initTestStorage(t)

	_, err := st.GetAccount(context.Background(), 1<<60)
	var notFoundError *storageErrors.NotFoundError
	assert.ErrorAs(t, err, &notFoundError)
}

func TestWithinTransactionCommit(t *testing.T) {
	st := initTestStorage(t)
	accountID := seedAccount(t, st, "100.00")

	err := st.WithinTransaction(context.Background(), accountID, func(txCtx context.Context) error {
		return st.DebitBalance(txCtx, accountID, decimal.RequireFromString("30.00"))
	})
	require.NoError(t, err)
	assert.True(t, getBalance(t, st, accountID).Equal(decimal.RequireFromString("70.00")))
}

func TestWithinTransactionRollback(t *testing.T) {
	st := initTestStorage(t)
	accountID := seedAccount(t, st, "100.00")
	scopeErr := errors.New("publish refused")

	err := st.WithinTransaction(context.Background(), accountID, func(txCtx context.Context) error {
		if err := st.DebitBalance(txCtx, accountID, decimal.RequireFromString("30.00")); err != nil {
			return err
		}
		return scopeErr
	})
	assert.ErrorIs(t, err, scopeErr)
	assert.True(t, getBalance(t, st, accountID).Equal(decimal.RequireFromString("100.00")))
}

func TestWithinTransactionUnknownAccount(t *testing.T) {
	st := initTestStorage(t)

	err := st.WithinTransaction(context.Background(), 1<<60, func(txCtx context.Context) error {
		return nil
	})
	var notFoundError *storageErrors.NotFoundError
	assert.ErrorAs(t, err, &notFoundError)
}

func TestDebitOutsideTransactionScope(t *testing.T) {
	st := initTestStorage(t)
	accountID := seedAccount(t, st, "100.00")

	err := st.DebitBalance(context.Background(), accountID, decimal.RequireFromString("30.00"))
	assert.Error(t, err)
	assert.True(t, getBalance(t, st, accountID).Equal(decimal.RequireFromString("100.00")))
}

func TestConcurrentDebitsKeepBalanceNonNegative(t *testing.T) {
	st := initTestStorage(t)
	accountID := seedAccount(t, st, "100.00")
	amount := decimal.RequireFromString("80.00")

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- st.WithinTransaction(context.Background(), accountID, func(txCtx context.Context) error {
				return st.DebitBalance(txCtx, accountID, amount)
			})
		}()
	}
	wg.Wait()
	close(results)

	// the row lock serializes the two debits and the balance check constraint
	// rejects the second one
	failures := 0
	for err := range results {
		if err != nil {
			failures++
		}
	}
	assert.Equal(t, 1, failures)
	assert.True(t, getBalance(t, st, accountID).Equal(decimal.RequireFromString("20.00")))
}
