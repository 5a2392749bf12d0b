package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-gate/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-gate/internal/pkg/utils"
)

// Flow is the check-in state machine of a single page view.
//
// loading -> denied | out-of-range | form -> success, and reset back to
// loading from any step while no submission is in flight.
type Flow struct {
	mu sync.Mutex

	id   string
	cfg  attendance.FlowConfig
	sink attendance.Sink
	now  func() time.Time

	state      attendance.FlowState
	distance   *int64
	form       attendance.Record
	submitting bool
	locating   bool
	generation uint64
	touchedAt  time.Time

	onChange func(attendance.FlowResponse)
}

// NewFlow creates a flow in the loading step.
func NewFlow(id string, cfg attendance.FlowConfig, sink attendance.Sink) *Flow {
	f := &Flow{
		id:   id,
		cfg:  cfg,
		sink: sink,
		now:  time.Now,
	}
	f.clear()
	f.touchedAt = f.now()
	return f
}

func (f *Flow) ID() string {
	return f.id
}

// clear resets the page-view data. Callers hold f.mu.
func (f *Flow) clear() {
	f.state = attendance.StateLoading
	f.distance = nil
	f.form = attendance.Record{Type: attendance.ActionCheckIn}
	f.submitting = false
	f.locating = false
}

// Locate asks the location service for the current position once and moves
// the flow out of loading based on the distance to the office.
func (f *Flow) Locate(ctx context.Context, locator attendance.Locator) (attendance.FlowResponse, error) {
	f.mu.Lock()
	if f.state != attendance.StateLoading || f.locating {
		view := f.viewLocked()
		f.mu.Unlock()
		return view, attendance.ErrInvalidTransition
	}
	f.locating = true
	gen := f.generation
	f.touchedAt = f.now()
	f.mu.Unlock()

	position, err := locator.CurrentPosition(ctx, attendance.PositionOptions{EnableHighAccuracy: true})

	f.mu.Lock()
	if gen != f.generation {
		// Reset while the location request was outstanding.
		view := f.viewLocked()
		f.mu.Unlock()
		return view, attendance.ErrInvalidTransition
	}
	f.locating = false
	f.touchedAt = f.now()

	if err != nil {
		slog.Warn("Location unavailable", "flow_id", f.id, "error", err)
		f.state = attendance.StateDenied
		return f.commitLocked(), nil
	}

	distance := utils.Distance(position, f.cfg.Target)
	rounded := utils.RoundMeters(distance)
	f.distance = &rounded

	if distance <= f.cfg.RadiusMeters {
		f.state = attendance.StateForm
	} else {
		f.state = attendance.StateOutOfRange
	}

	slog.Info("Location checked",
		"flow_id", f.id,
		"distance_meters", rounded,
		"radius_meters", f.cfg.RadiusMeters,
		"state", f.state.String(),
	)

	return f.commitLocked(), nil
}

// SetName replaces the name on the form.
func (f *Flow) SetName(name string) (attendance.FlowResponse, error) {
	return f.editForm(func(r *attendance.Record) {
		r.Name = name
	})
}

// SetType selects the action type on the form.
func (f *Flow) SetType(actionType attendance.ActionType) (attendance.FlowResponse, error) {
	if err := actionType.Validate(); err != nil {
		return f.View(), err
	}
	return f.editForm(func(r *attendance.Record) {
		r.Type = actionType
	})
}

// ToggleType flips the action type on the form.
func (f *Flow) ToggleType() (attendance.FlowResponse, error) {
	return f.editForm(func(r *attendance.Record) {
		r.Type = r.Type.Toggle()
	})
}

func (f *Flow) editForm(edit func(r *attendance.Record)) (attendance.FlowResponse, error) {
	f.mu.Lock()
	if err := f.requireFormLocked(); err != nil {
		view := f.viewLocked()
		f.mu.Unlock()
		return view, err
	}
	edit(&f.form)
	f.touchedAt = f.now()
	return f.commitLocked(), nil
}

func (f *Flow) requireFormLocked() error {
	if f.state != attendance.StateForm {
		return attendance.ErrInvalidTransition
	}
	if f.submitting {
		return attendance.ErrSubmissionInProgress
	}
	return nil
}

// Submit delivers the form to the sink. While the delivery is in flight the
// flow rejects further submissions and edits. A failed delivery leaves the
// flow on the form so the user can submit again.
func (f *Flow) Submit(ctx context.Context) (attendance.FlowResponse, error) {
	f.mu.Lock()
	if err := f.requireFormLocked(); err != nil {
		view := f.viewLocked()
		f.mu.Unlock()
		return view, err
	}
	record := f.form
	if err := record.Validate(); err != nil {
		view := f.viewLocked()
		f.mu.Unlock()
		return view, err
	}
	f.submitting = true
	f.touchedAt = f.now()
	f.commitLocked()

	// The delivery is attempted exactly once even if the caller goes away.
	err := f.sink.Deliver(context.WithoutCancel(ctx), record)

	f.mu.Lock()
	f.submitting = false
	f.touchedAt = f.now()
	if err != nil {
		slog.Error("Failed to submit attendance", "flow_id", f.id, "type", string(record.Type), "error", err)
		view := f.commitLocked()
		return view, fmt.Errorf("%w: %v", attendance.ErrSubmissionFailed, err)
	}

	f.state = attendance.StateSuccess
	slog.Info("Attendance submitted", "flow_id", f.id, "type", string(record.Type))
	return f.commitLocked(), nil
}

// Reset is the full reload: all page-view data is discarded and the flow
// waits for a new location read.
func (f *Flow) Reset() (attendance.FlowResponse, error) {
	f.mu.Lock()
	if f.submitting {
		view := f.viewLocked()
		f.mu.Unlock()
		return view, attendance.ErrSubmissionInProgress
	}
	f.generation++
	f.clear()
	f.touchedAt = f.now()
	return f.commitLocked(), nil
}

// View returns the current state of the flow.
func (f *Flow) View() attendance.FlowResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

// IdleSince reports when the flow was last touched and whether work is in
// flight on it.
func (f *Flow) IdleSince() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touchedAt, f.submitting || f.locating
}

// commitLocked renders the view, notifies the observer and releases f.mu.
// onChange runs under f.mu so observers see transitions in commit order; it
// must not block or call back into the flow.
func (f *Flow) commitLocked() attendance.FlowResponse {
	view := f.viewLocked()
	if f.onChange != nil {
		f.onChange(view)
	}
	f.mu.Unlock()
	return view
}

func (f *Flow) viewLocked() attendance.FlowResponse {
	view := attendance.FlowResponse{
		ID:           f.id,
		State:        f.state,
		RadiusMeters: f.cfg.RadiusMeters,
		Form: attendance.FormResponse{
			Name: f.form.Name,
			Type: f.form.Type,
		},
		Submitting: f.submitting,
	}
	if f.distance != nil {
		d := *f.distance
		view.DistanceMeters = &d
	}

	radius := strconv.FormatFloat(f.cfg.RadiusMeters, 'f', -1, 64)

	switch f.state {
	case attendance.StateLoading:
		view.Message = "Getting your location..."
	case attendance.StateDenied:
		view.Message = "Please enable location services and refresh the page to mark attendance."
	case attendance.StateOutOfRange:
		view.Message = fmt.Sprintf("You are %d meters away. You must be within %s meters.", *f.distance, radius)
	case attendance.StateForm:
		if f.submitting {
			view.Message = "Submitting..."
		} else {
			view.Message = "Enter your name and choose an action."
		}
	case attendance.StateSuccess:
		view.Message = fmt.Sprintf("Your %s has been recorded.", strings.ToLower(string(f.form.Type)))
	default:
		panic(fmt.Sprintf("attendance: unhandled flow state %d", int(f.state)))
	}

	return view
}
