package vrp

import "math"

// earthRadiusKm is the Earth radius used for great-circle distance (spec §4.1).
const earthRadiusKm = 6371.0

// Distance returns the great-circle distance between a and b in kilometres,
// using the spherical law of cosines. It is symmetric and obeys the
// triangle inequality to within floating-point tolerance (spec §8
// invariant 3).
func Distance(a, b Coordinate) float64 {
	if a.Latitude == b.Latitude && a.Longitude == b.Longitude {
		return 0
	}

	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	cosAngle := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLon)
	// Clamp for floating-point drift at the antipodes/identical points.
	if cosAngle > 1 {
		cosAngle = 1
	} else if cosAngle < -1 {
		cosAngle = -1
	}

	return earthRadiusKm * math.Acos(cosAngle)
}

// DistanceMatrix memoises pairwise distances for one call's location set
// (spec §9: "Distance values may be memoised into a per-call N×N matrix").
// It is built once from the depot plus all customer locations and indexed
// by location ID; it is never shared across solves.
type DistanceMatrix struct {
	index map[string]int
	coord []Coordinate
	dist  [][]float64
}

// NewDistanceMatrix builds a DistanceMatrix over the depot and locations.
func NewDistanceMatrix(depot Location, locations []Location) *DistanceMatrix {
	n := len(locations) + 1
	m := &DistanceMatrix{
		index: make(map[string]int, n),
		coord: make([]Coordinate, 0, n),
	}

	m.index[depot.ID] = 0
	m.coord = append(m.coord, depot.Coordinate)
	for i, loc := range locations {
		m.index[loc.ID] = i + 1
		m.coord = append(m.coord, loc.Coordinate)
	}

	m.dist = make([][]float64, n)
	for i := range m.dist {
		m.dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := Distance(m.coord[i], m.coord[j])
			m.dist[i][j] = d
			m.dist[j][i] = d
		}
	}

	return m
}

// Between returns the memoised distance between two location IDs, falling
// back to a direct computation (e.g. a vehicle's distinct end coordinate)
// when either ID is not in the matrix.
func (m *DistanceMatrix) Between(aID string, aCoord Coordinate, bID string, bCoord Coordinate) float64 {
	ai, aok := m.index[aID]
	bi, bok := m.index[bID]
	if aok && bok {
		return m.dist[ai][bi]
	}
	return Distance(aCoord, bCoord)
}

// Coordinate returns the coordinate registered for a location ID, if any.
func (m *DistanceMatrix) Coordinate(id string) (Coordinate, bool) {
	i, ok := m.index[id]
	if !ok {
		return Coordinate{}, false
	}
	return m.coord[i], true
}
