// Package testutil holds custom testify-style assertions shared across the
// module's test suites.
package testutil

import (
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// AssertValidUUID checks if a string is a valid UUID.
func AssertValidUUID(t *testing.T, id string, msgAndArgs ...interface{}) bool {
	return assert.Regexp(t, uuidRegex, id, msgAndArgs...)
}

// AssertFiniteCoordinate checks that a latitude/longitude pair carries no
// NaN or Inf components and falls within valid ranges.
func AssertFiniteCoordinate(t *testing.T, lat, lon float64, msgAndArgs ...interface{}) bool {
	if !assert.False(t, math.IsNaN(lat) || math.IsInf(lat, 0), msgAndArgs...) {
		return false
	}
	if !assert.False(t, math.IsNaN(lon) || math.IsInf(lon, 0), msgAndArgs...) {
		return false
	}
	ok := assert.GreaterOrEqual(t, lat, -90.0, msgAndArgs...)
	ok = assert.LessOrEqual(t, lat, 90.0, msgAndArgs...) && ok
	ok = assert.GreaterOrEqual(t, lon, -180.0, msgAndArgs...) && ok
	ok = assert.LessOrEqual(t, lon, 180.0, msgAndArgs...) && ok
	return ok
}

// AssertNonNegative checks that a monetary or distance value is not
// negative, the shape every route aggregate must satisfy.
func AssertNonNegative(t *testing.T, value float64, msgAndArgs ...interface{}) bool {
	return assert.GreaterOrEqual(t, value, 0.0, msgAndArgs...)
}

// AssertPermutationOf checks that got is a reordering of want with no
// element dropped, duplicated, or invented.
func AssertPermutationOf(t *testing.T, want, got []string, msgAndArgs ...interface{}) bool {
	if !assert.Len(t, got, len(want), msgAndArgs...) {
		return false
	}
	return assert.ElementsMatch(t, want, got, msgAndArgs...)
}
