package ports

import (
	"context"

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
)

// EventSink receives analytics events. Delivery is best-effort and
// fire-and-forget: the recorder logs failures and never retries (retry
// responsibility, if any, belongs to the transport behind the sink).
type EventSink interface {
	Send(ctx context.Context, events []domain.Event) error
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(ctx context.Context, events []domain.Event) error

func (f EventSinkFunc) Send(ctx context.Context, events []domain.Event) error {
	return f(ctx, events)
}
