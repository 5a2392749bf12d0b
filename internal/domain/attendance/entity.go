package attendance

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-gate/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-gate/internal/pkg/validator"
)

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate = utils.Coordinate

// ActionType is the attendance action recorded by the sink.
type ActionType string

const (
	ActionCheckIn  ActionType = "Check In"
	ActionCheckOut ActionType = "Check Out"
)

var validActionTypes = []string{string(ActionCheckIn), string(ActionCheckOut)}

// Toggle returns the opposite action.
func (t ActionType) Toggle() ActionType {
	if t == ActionCheckOut {
		return ActionCheckIn
	}
	return ActionCheckOut
}

func (t ActionType) IsValid() bool {
	return validator.IsInSlice(string(t), validActionTypes)
}

func (t ActionType) Validate() error {
	if t.IsValid() {
		return nil
	}
	return validator.ValidationErrors{{
		Field:   "type",
		Message: "type must be one of: " + strings.Join(validActionTypes, ", "),
	}}
}

// Record is the payload delivered to the submission sink.
type Record struct {
	Name string     `json:"name"`
	Type ActionType `json:"type"`
}

func (r Record) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !r.Type.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: " + strings.Join(validActionTypes, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// FlowState is the phase a check-in flow is currently in.
type FlowState int

const (
	StateLoading FlowState = iota
	StateDenied
	StateOutOfRange
	StateForm
	StateSuccess
)

func (s FlowState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateDenied:
		return "denied"
	case StateOutOfRange:
		return "out-of-range"
	case StateForm:
		return "form"
	case StateSuccess:
		return "success"
	default:
		return fmt.Sprintf("FlowState(%d)", int(s))
	}
}

func (s FlowState) MarshalText() ([]byte, error) {
	switch s {
	case StateLoading, StateDenied, StateOutOfRange, StateForm, StateSuccess:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("unknown flow state %d", int(s))
	}
}

func (s *FlowState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "loading":
		*s = StateLoading
	case "denied":
		*s = StateDenied
	case "out-of-range":
		*s = StateOutOfRange
	case "form":
		*s = StateForm
	case "success":
		*s = StateSuccess
	default:
		return fmt.Errorf("unknown flow state %q", string(text))
	}
	return nil
}
