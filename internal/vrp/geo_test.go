package vrp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Coordinate
		wantKm  float64
		wantTol float64
	}{
		{
			name:    "identical points",
			a:       Coordinate{Latitude: -6.2, Longitude: 106.8},
			b:       Coordinate{Latitude: -6.2, Longitude: 106.8},
			wantKm:  0,
			wantTol: 0.0001,
		},
		{
			name:    "jakarta to bandung (approx)",
			a:       Coordinate{Latitude: -6.2088, Longitude: 106.8456},
			b:       Coordinate{Latitude: -6.9175, Longitude: 107.6191},
			wantKm:  120,
			wantTol: 10,
		},
		{
			name:    "antipodal-ish points don't NaN",
			a:       Coordinate{Latitude: 90, Longitude: 0},
			b:       Coordinate{Latitude: -90, Longitude: 0},
			wantKm:  earthRadiusKm * math.Pi,
			wantTol: 0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			assert.InDelta(t, tt.wantKm, got, tt.wantTol)
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := Coordinate{Latitude: -6.2, Longitude: 106.8}
	b := Coordinate{Latitude: -7.25, Longitude: 112.75}
	assert.Equal(t, Distance(a, b), Distance(b, a))
}

// TestDistanceSymmetryFuzz exercises invariant 3 (symmetry) over many
// random coordinate pairs rather than a handful of fixed cases.
func TestDistanceSymmetryFuzz(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		a := Coordinate{Latitude: rng.Float64()*180 - 90, Longitude: rng.Float64()*360 - 180}
		b := Coordinate{Latitude: rng.Float64()*180 - 90, Longitude: rng.Float64()*360 - 180}
		assert.Equal(t, Distance(a, b), Distance(b, a), "symmetry violated for %v / %v", a, b)
	}
}

func TestDistanceMatrix(t *testing.T) {
	depot := Location{ID: "depot", Coordinate: Coordinate{Latitude: -6.2, Longitude: 106.8}}
	locations := []Location{
		{ID: "a", Coordinate: Coordinate{Latitude: -6.3, Longitude: 106.9}},
		{ID: "b", Coordinate: Coordinate{Latitude: -6.4, Longitude: 107.0}},
	}
	matrix := NewDistanceMatrix(depot, locations)

	direct := Distance(depot.Coordinate, locations[0].Coordinate)
	memoised := matrix.Between(depot.ID, depot.Coordinate, locations[0].ID, locations[0].Coordinate)
	assert.InDelta(t, direct, memoised, 1e-9)

	// Symmetric lookup regardless of argument order.
	assert.Equal(t,
		matrix.Between("a", locations[0].Coordinate, "b", locations[1].Coordinate),
		matrix.Between("b", locations[1].Coordinate, "a", locations[0].Coordinate),
	)

	coord, ok := matrix.Coordinate("a")
	require.True(t, ok)
	assert.Equal(t, locations[0].Coordinate, coord)

	_, ok = matrix.Coordinate("unknown")
	assert.False(t, ok)

	// Falls back to direct computation for an ID the matrix never saw.
	fallbackCoord := Coordinate{Latitude: 1, Longitude: 1}
	got := matrix.Between("depot", depot.Coordinate, "elsewhere", fallbackCoord)
	assert.InDelta(t, Distance(depot.Coordinate, fallbackCoord), got, 1e-9)
}
