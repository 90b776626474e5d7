package notifier

import (
	"context"

	"github.com/vzaikin/go-bank-withdraw/internal/models/modelwithdraw"
)

// Notifier publishes withdrawal events to an external bus. Implementations
// carry no business logic and report transport faults as errors only.
type Notifier interface {
	Publish(ctx context.Context, event modelwithdraw.Event) error
}
