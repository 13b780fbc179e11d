package vrp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validRequest() *Request {
	return &Request{
		Depot: Location{ID: "depot", Coordinate: Coordinate{Latitude: -6.2, Longitude: 106.8}},
		Locations: []Location{
			{ID: "a", Coordinate: Coordinate{Latitude: -6.21, Longitude: 106.81}},
		},
		Vehicles: []Vehicle{
			{ID: "v1", Capacity: Capacity{Weight: 100}, Speed: 40},
		},
		Objectives: Objectives{MinimizeCost: 1},
		Algorithm:  AlgorithmGenetic,
	}
}

func TestValidateRequest_Valid(t *testing.T) {
	assert.NoError(t, ValidateRequest(validRequest()))
}

func TestValidateRequest_Nil(t *testing.T) {
	assert.Error(t, ValidateRequest(nil))
}

func TestValidateRequest_UnknownAlgorithm(t *testing.T) {
	req := validRequest()
	req.Algorithm = "not-a-real-algorithm"
	assert.Error(t, ValidateRequest(req))
}

func TestValidateRequest_NonFiniteCoordinate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"depot NaN latitude", func(r *Request) { r.Depot.Coordinate.Latitude = math.NaN() }},
		{"location Inf longitude", func(r *Request) { r.Locations[0].Coordinate.Longitude = math.Inf(1) }},
		{"vehicle start location NaN", func(r *Request) {
			r.Vehicles[0].StartLocation = Coordinate{Latitude: math.NaN(), Longitude: 1}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			assert.Error(t, ValidateRequest(req))
		})
	}
}

func TestValidateRequest_ZeroObjectives(t *testing.T) {
	req := validRequest()
	req.Objectives = Objectives{}
	assert.Error(t, ValidateRequest(req))
}

func TestValidateRequest_NegativeObjective(t *testing.T) {
	req := validRequest()
	req.Objectives.MinimizeCost = -1
	assert.Error(t, ValidateRequest(req))
}

func TestValidateRequest_StructTagViolations(t *testing.T) {
	req := validRequest()
	req.Depot.Coordinate.Latitude = 200 // out of [-90,90]
	assert.Error(t, ValidateRequest(req))
}

func TestValidateRequest_NegativeVehicleCapacity(t *testing.T) {
	req := validRequest()
	req.Vehicles[0].Capacity.Weight = -5
	assert.Error(t, ValidateRequest(req), "negative capacity must be a fatal invalid-request (spec §7)")
}

func TestValidateRequest_NegativeLocationDemand(t *testing.T) {
	req := validRequest()
	req.Locations[0].Demand.Weight = -1
	assert.Error(t, ValidateRequest(req), "negative demand must be a fatal invalid-request (spec §7)")
}
