package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateHaversineDistance(t *testing.T) {
	tests := []struct {
		name string
		lat1 float64
		lon1 float64
		lat2 float64
		lon2 float64
		want float64 // meters
		tol  float64
	}{
		{
			name: "same location",
			lat1: 19.0259881, lon1: 72.8734742,
			lat2: 19.0259881, lon2: 72.8734742,
			want: 0,
			tol:  0,
		},
		{
			name: "one degree of latitude on the equator",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			// 2 * pi * R / 360
			want: 111194.93,
			tol:  0.5,
		},
		{
			name: "quarter of the equator",
			lat1: 0, lon1: 0,
			lat2: 0, lon2: 90,
			want: math.Pi * EarthRadiusMeters / 2,
			tol:  0.001,
		},
		{
			name: "office to null island",
			lat1: 19.0259881, lon1: 72.8734742,
			lat2: 0, lon2: 0,
			want: 8_210_137.18,
			tol:  0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateHaversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.tol)
		})
	}
}

func TestCalculateHaversineDistance_Symmetric(t *testing.T) {
	points := [][2]float64{
		{19.0259881, 72.8734742},
		{0, 0},
		{-33.8688, 151.2093},
		{51.5074, -0.1278},
		{89.9, 179.9},
		{-89.9, -179.9},
	}

	for _, a := range points {
		for _, b := range points {
			ab := CalculateHaversineDistance(a[0], a[1], b[0], b[1])
			ba := CalculateHaversineDistance(b[0], b[1], a[0], a[1])
			assert.InDelta(t, ab, ba, 1e-6, "distance(%v,%v) != distance(%v,%v)", a, b, b, a)
		}
	}
}

func TestCalculateHaversineDistance_Identity(t *testing.T) {
	points := [][2]float64{{0, 0}, {45, 45}, {-12.5, 130.25}, {90, 0}}
	for _, p := range points {
		assert.Equal(t, 0.0, CalculateHaversineDistance(p[0], p[1], p[0], p[1]))
	}
}

func TestDistance(t *testing.T) {
	office := Coordinate{Latitude: 19.0259881, Longitude: 72.8734742}
	nullIsland := Coordinate{}

	assert.InDelta(t, 8_210_137.18, Distance(office, nullIsland), 0.5)
	assert.Equal(t,
		CalculateHaversineDistance(office.Latitude, office.Longitude, 0, 0),
		Distance(office, nullIsland),
	)
	assert.InDelta(t, Distance(office, nullIsland), Distance(nullIsland, office), 1e-6)
	assert.Equal(t, 0.0, Distance(office, office))
}

func TestRoundMeters(t *testing.T) {
	assert.Equal(t, int64(0), RoundMeters(0.49))
	assert.Equal(t, int64(1), RoundMeters(0.5))
	assert.Equal(t, int64(5000), RoundMeters(4999.6))
}
