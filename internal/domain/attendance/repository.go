package attendance

import "context"

// PositionOptions are hints passed to the location service.
type PositionOptions struct {
	EnableHighAccuracy bool
}

// Locator reads the user's current position. It is called once per flow,
// and any error sends the flow to the denied step.
type Locator interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (Coordinate, error)
}

// LocatorFunc adapts a function to a Locator.
type LocatorFunc func(ctx context.Context, opts PositionOptions) (Coordinate, error)

func (f LocatorFunc) CurrentPosition(ctx context.Context, opts PositionOptions) (Coordinate, error) {
	return f(ctx, opts)
}

// Sink receives submitted attendance records.
//
// Delivery is fire-and-forget: a nil error means the record was handed to
// the sink, not that the sink stored it. Implementations must not retry.
type Sink interface {
	Deliver(ctx context.Context, record Record) error
}
