package withdraw

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vzaikin/go-bank-withdraw/internal/models/modelwithdraw"
)

type Processor interface {
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (modelwithdraw.Outcome, error)
}
