package storage

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vzaikin/go-bank-withdraw/internal/models/modelstorage"
)

type AccountSource interface {
	GetAccount(ctx context.Context, accountID int64) (modelstorage.AccountStorageEntry, error)
}

type AccountDebitor interface {
	// WithinTransaction runs fn inside a transaction holding a row lock on the
	// account. The transaction commits iff fn returns nil, otherwise it rolls
	// back and the account stays untouched.
	WithinTransaction(ctx context.Context, accountID int64, fn func(ctx context.Context) error) error
	// DebitBalance reduces the account balance; valid only inside a
	// WithinTransaction scope.
	DebitBalance(ctx context.Context, accountID int64, amount decimal.Decimal) error
}

type AccountStore interface {
	AccountSource
	AccountDebitor
}
