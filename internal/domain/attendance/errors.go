package attendance

import (
	"errors"
	"fmt"
)

// Attendance flow errors
var (
	ErrFlowNotFound         = errors.New("attendance flow not found")
	ErrInvalidTransition    = errors.New("action not allowed in the current attendance step")
	ErrSubmissionInProgress = errors.New("attendance submission already in progress")
	ErrSubmissionFailed     = errors.New("error submitting attendance")
	ErrLocationDenied       = errors.New("location is required to mark attendance")
)

// Location error codes reported by the browser geolocation API.
const (
	LocationPermissionDenied    = "PERMISSION_DENIED"
	LocationPositionUnavailable = "POSITION_UNAVAILABLE"
	LocationTimeout             = "TIMEOUT"
	LocationUnsupported         = "UNSUPPORTED"
)

var locationErrorCodes = []string{
	LocationPermissionDenied,
	LocationPositionUnavailable,
	LocationTimeout,
	LocationUnsupported,
}

// LocationError is returned by a Locator when no position could be read.
type LocationError struct {
	Code    string
	Message string
}

func (e *LocationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("location error %s", e.Code)
	}
	return fmt.Sprintf("location error %s: %s", e.Code, e.Message)
}

func (e *LocationError) Unwrap() error {
	return ErrLocationDenied
}
