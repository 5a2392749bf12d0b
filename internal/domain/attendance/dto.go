package attendance

import (
	"context"
	"strings"

	"github.com/cmlabs-hris/attendance-gate/internal/pkg/validator"
)

// ========================================
// LOCATION DTOs
// ========================================

type LocationErrorRequest struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// LocateRequest carries the result of the browser geolocation call:
// either a position or the error the browser reported.
type LocateRequest struct {
	Latitude  *float64              `json:"latitude,omitempty"`
	Longitude *float64              `json:"longitude,omitempty"`
	Accuracy  *float64              `json:"accuracy,omitempty"`
	Error     *LocationErrorRequest `json:"error,omitempty"`
}

func (r *LocateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Error != nil {
		if !validator.IsInSlice(r.Error.Code, locationErrorCodes) {
			errs = append(errs, validator.ValidationError{
				Field:   "error.code",
				Message: "error.code must be one of: " + strings.Join(locationErrorCodes, ", "),
			})
		}
		if len(errs) > 0 {
			return errs
		}
		return nil
	}

	if r.Latitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude is required",
		})
	} else if !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude is required",
		})
	} else if !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.Accuracy != nil && *r.Accuracy < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "accuracy",
			Message: "accuracy must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Locator replays the reported result as a location service response.
func (r *LocateRequest) Locator() Locator {
	return LocatorFunc(func(ctx context.Context, opts PositionOptions) (Coordinate, error) {
		if r.Error != nil {
			return Coordinate{}, &LocationError{Code: r.Error.Code, Message: r.Error.Message}
		}
		if r.Latitude == nil || r.Longitude == nil {
			return Coordinate{}, &LocationError{Code: LocationPositionUnavailable}
		}
		return Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude}, nil
	})
}

// ========================================
// FORM DTOs
// ========================================

type UpdateFormRequest struct {
	Name *string     `json:"name,omitempty"`
	Type *ActionType `json:"type,omitempty"`
}

func (r *UpdateFormRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name == nil && r.Type == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "form",
			Message: "at least one of name or type is required",
		})
	}

	if r.Type != nil && !r.Type.IsValid() {
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

// ========================================
// RESPONSES
// ========================================

type FormResponse struct {
	Name string     `json:"name"`
	Type ActionType `json:"type"`
}

type FlowResponse struct {
	ID             string       `json:"id"`
	State          FlowState    `json:"state"`
	DistanceMeters *int64       `json:"distance_meters,omitempty"`
	RadiusMeters   float64      `json:"radius_meters"`
	Form           FormResponse `json:"form"`
	Submitting     bool         `json:"submitting"`
	Message        string       `json:"message"`
}

type OfficeResponse struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}
