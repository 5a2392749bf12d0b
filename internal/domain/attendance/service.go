package attendance

import (
	"context"
)

// FlowConfig is the office geofence a flow checks positions against.
type FlowConfig struct {
	Target       Coordinate
	RadiusMeters float64
}

// Flow event names
const (
	EventFlowState  = "flow.state"
	EventFlowClosed = "flow.closed"
)

// SSEEvent represents a Server-Sent Event for a flow
type SSEEvent struct {
	Event string       `json:"event"`
	Data  FlowResponse `json:"data"`
}

// FlowService drives attendance check-in flows, one per page view.
type FlowService interface {
	// Open starts a new flow in the loading step
	Open(ctx context.Context) (FlowResponse, error)

	// Get returns the current view of a flow
	Get(ctx context.Context, id string) (FlowResponse, error)

	// Locate feeds the location service result and moves the flow out of loading
	Locate(ctx context.Context, id string, req LocateRequest) (FlowResponse, error)

	// UpdateForm edits the name and/or action type while on the form step
	UpdateForm(ctx context.Context, id string, req UpdateFormRequest) (FlowResponse, error)

	// ToggleType flips between check in and check out
	ToggleType(ctx context.Context, id string) (FlowResponse, error)

	// Submit delivers the form to the sink
	Submit(ctx context.Context, id string) (FlowResponse, error)

	// Reset discards everything and returns the flow to loading
	Reset(ctx context.Context, id string) (FlowResponse, error)

	// Close drops the flow
	Close(ctx context.Context, id string) error

	// SSE subscription
	Subscribe(ctx context.Context, id string) (<-chan SSEEvent, func(), error)

	// ExpireIdle drops flows that have not been touched for the configured TTL
	ExpireIdle(ctx context.Context) error

	Office() OfficeResponse
}
