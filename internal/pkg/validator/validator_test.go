package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"Check In", "Check Out"}
	if !IsInSlice("Check In", slice) {
		t.Errorf("IsInSlice(%q) = false, want true", "Check In")
	}
	if IsInSlice("check in", slice) {
		t.Errorf("IsInSlice(%q) = true, want false", "check in")
	}
	if IsInSlice("", nil) {
		t.Errorf("IsInSlice on nil slice = true, want false")
	}
}

func TestCoordinateRanges(t *testing.T) {
	validLat := []float64{-90, -45.5, 0, 19.0259881, 90}
	invalidLat := []float64{-90.0001, 90.0001, 180}
	for _, lat := range validLat {
		if !IsValidLatitude(lat) {
			t.Errorf("IsValidLatitude(%v) = false, want true", lat)
		}
	}
	for _, lat := range invalidLat {
		if IsValidLatitude(lat) {
			t.Errorf("IsValidLatitude(%v) = true, want false", lat)
		}
	}

	validLon := []float64{-180, 0, 72.8734742, 180}
	invalidLon := []float64{-180.5, 180.5, 360}
	for _, lon := range validLon {
		if !IsValidLongitude(lon) {
			t.Errorf("IsValidLongitude(%v) = false, want true", lon)
		}
	}
	for _, lon := range invalidLon {
		if IsValidLongitude(lon) {
			t.Errorf("IsValidLongitude(%v) = true, want false", lon)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "name", Message: "name is required"},
		{Field: "type", Message: "type must be one of: Check In, Check Out"},
	}

	want := "name: name is required; type: type must be one of: Check In, Check Out"
	if got := errs.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	m := errs.ToMap()
	if len(m) != 2 || m["name"] != "name is required" {
		t.Errorf("ToMap() = %v", m)
	}
}
