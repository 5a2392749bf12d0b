package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-gate/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-gate/internal/pkg/sse"
	"github.com/google/uuid"
)

type flowServiceImpl struct {
	cfg     attendance.FlowConfig
	sink    attendance.Sink
	hub     *sse.Hub
	idleTTL time.Duration
	now     func() time.Time

	mu    sync.RWMutex
	flows map[string]*Flow
}

// NewFlowService creates the service that owns all open attendance flows.
// A non-positive idleTTL disables expiry.
func NewFlowService(cfg attendance.FlowConfig, sink attendance.Sink, hub *sse.Hub, idleTTL time.Duration) attendance.FlowService {
	return &flowServiceImpl{
		cfg:     cfg,
		sink:    sink,
		hub:     hub,
		idleTTL: idleTTL,
		now:     time.Now,
		flows:   make(map[string]*Flow),
	}
}

// Open implements attendance.FlowService.
func (s *flowServiceImpl) Open(ctx context.Context) (attendance.FlowResponse, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return attendance.FlowResponse{}, fmt.Errorf("failed to generate flow id: %w", err)
	}

	flow := NewFlow(id.String(), s.cfg, s.sink)
	flow.now = s.now
	flow.touchedAt = s.now()
	flow.onChange = func(view attendance.FlowResponse) {
		s.hub.Publish(view.ID, sse.Event{
			Key:   view.ID,
			Event: attendance.EventFlowState,
			Data:  view,
		})
	}

	s.mu.Lock()
	s.flows[flow.ID()] = flow
	s.mu.Unlock()

	slog.Debug("Attendance flow opened", "flow_id", flow.ID())
	return flow.View(), nil
}

func (s *flowServiceImpl) flow(id string) (*Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	flow, ok := s.flows[id]
	if !ok {
		return nil, attendance.ErrFlowNotFound
	}
	return flow, nil
}

// Get implements attendance.FlowService.
func (s *flowServiceImpl) Get(ctx context.Context, id string) (attendance.FlowResponse, error) {
	flow, err := s.flow(id)
	if err != nil {
		return attendance.FlowResponse{}, err
	}
	return flow.View(), nil
}

// Locate implements attendance.FlowService.
func (s *flowServiceImpl) Locate(ctx context.Context, id string, req attendance.LocateRequest) (attendance.FlowResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.FlowResponse{}, err
	}

	flow, err := s.flow(id)
	if err != nil {
		return attendance.FlowResponse{}, err
	}

	return flow.Locate(ctx, req.Locator())
}

// UpdateForm implements attendance.FlowService.
func (s *flowServiceImpl) UpdateForm(ctx context.Context, id string, req attendance.UpdateFormRequest) (attendance.FlowResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.FlowResponse{}, err
	}

	flow, err := s.flow(id)
	if err != nil {
		return attendance.FlowResponse{}, err
	}

	view := flow.View()
	if req.Name != nil {
		if view, err = flow.SetName(*req.Name); err != nil {
			return view, err
		}
	}
	if req.Type != nil {
		if view, err = flow.SetType(*req.Type); err != nil {
			return view, err
		}
	}

	return view, nil
}

// ToggleType implements attendance.FlowService.
func (s *flowServiceImpl) ToggleType(ctx context.Context, id string) (attendance.FlowResponse, error) {
	flow, err := s.flow(id)
	if err != nil {
		return attendance.FlowResponse{}, err
	}
	return flow.ToggleType()
}

// Submit implements attendance.FlowService.
func (s *flowServiceImpl) Submit(ctx context.Context, id string) (attendance.FlowResponse, error) {
	flow, err := s.flow(id)
	if err != nil {
		return attendance.FlowResponse{}, err
	}
	return flow.Submit(ctx)
}

// Reset implements attendance.FlowService.
func (s *flowServiceImpl) Reset(ctx context.Context, id string) (attendance.FlowResponse, error) {
	flow, err := s.flow(id)
	if err != nil {
		return attendance.FlowResponse{}, err
	}
	return flow.Reset()
}

// Close implements attendance.FlowService.
func (s *flowServiceImpl) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	flow, ok := s.flows[id]
	if ok {
		delete(s.flows, id)
	}
	s.mu.Unlock()

	if !ok {
		return attendance.ErrFlowNotFound
	}

	s.closeFlow(flow)
	return nil
}

func (s *flowServiceImpl) closeFlow(flow *Flow) {
	s.hub.Publish(flow.ID(), sse.Event{
		Key:   flow.ID(),
		Event: attendance.EventFlowClosed,
		Data:  flow.View(),
	})
	s.hub.CloseKey(flow.ID())
	slog.Debug("Attendance flow closed", "flow_id", flow.ID())
}

// Subscribe implements attendance.FlowService.
func (s *flowServiceImpl) Subscribe(ctx context.Context, id string) (<-chan attendance.SSEEvent, func(), error) {
	if _, err := s.flow(id); err != nil {
		return nil, nil, err
	}

	ch, cleanup := s.hub.Subscribe(id)

	out := make(chan attendance.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				if resp, ok := event.Data.(attendance.FlowResponse); ok {
					select {
					case out <- attendance.SSEEvent{Event: event.Event, Data: resp}:
					case <-ctx.Done():
						return
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup, nil
}

// ExpireIdle implements attendance.FlowService.
func (s *flowServiceImpl) ExpireIdle(ctx context.Context) error {
	if s.idleTTL <= 0 {
		return nil
	}

	cutoff := s.now().Add(-s.idleTTL)
	var expired []*Flow

	s.mu.Lock()
	for id, flow := range s.flows {
		touchedAt, busy := flow.IdleSince()
		if busy || touchedAt.After(cutoff) {
			continue
		}
		delete(s.flows, id)
		expired = append(expired, flow)
	}
	s.mu.Unlock()

	for _, flow := range expired {
		s.closeFlow(flow)
	}

	if len(expired) > 0 {
		slog.Info("Expired idle attendance flows", "count", len(expired))
	}
	return nil
}

// Office implements attendance.FlowService.
func (s *flowServiceImpl) Office() attendance.OfficeResponse {
	return attendance.OfficeResponse{
		Latitude:     s.cfg.Target.Latitude,
		Longitude:    s.cfg.Target.Longitude,
		RadiusMeters: s.cfg.RadiusMeters,
	}
}
