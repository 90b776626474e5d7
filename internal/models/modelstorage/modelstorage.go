package modelstorage

import (
	"github.com/shopspring/decimal"
)

type AccountStorageEntry struct {
	ID      int64           `db:"id"`
	Balance decimal.Decimal `db:"balance"`
}
