package vrp

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// validate is the package-level struct-tag validator, built once and
// reused across calls (spec §4.0), mirroring the validator.New() /
// validator.Validate.Struct() pattern used by the handler layer this
// package's teacher was built from.
var validate = validator.New()

// ValidateRequest checks a Request against its struct tags plus the
// numeric sanity rules struct tags can't express: no NaN/Inf coordinates
// or objective weights, and at least one positive objective weight so
// fitness isn't identically zero (spec §4.0, §9).
func ValidateRequest(req *Request) error {
	if req == nil {
		return NewInvalidRequestError("request is nil")
	}

	if err := validate.Struct(req); err != nil {
		return NewInvalidRequestError(err.Error())
	}

	if !req.Algorithm.Valid() {
		return NewInvalidRequestError(fmt.Sprintf("unknown algorithm %q", req.Algorithm))
	}

	if !finiteCoordinate(req.Depot.Coordinate) {
		return NewInvalidRequestError("depot coordinate must be finite")
	}
	for _, loc := range req.Locations {
		if !finiteCoordinate(loc.Coordinate) {
			return NewInvalidRequestError(fmt.Sprintf("location %q coordinate must be finite", loc.ID))
		}
	}
	for _, v := range req.Vehicles {
		if v.StartLocation != (Coordinate{}) && !finiteCoordinate(v.StartLocation) {
			return NewInvalidRequestError(fmt.Sprintf("vehicle %q start location must be finite", v.ID))
		}
		if v.EndLocation != nil && !finiteCoordinate(*v.EndLocation) {
			return NewInvalidRequestError(fmt.Sprintf("vehicle %q end location must be finite", v.ID))
		}
	}

	if err := finiteObjectives(req.Objectives); err != nil {
		return err
	}

	sum := req.Objectives.Sum()
	if sum <= 0 {
		return NewInvalidRequestError("objectives must have at least one positive weight")
	}

	return nil
}

func finiteCoordinate(c Coordinate) bool {
	return isFinite(c.Latitude) && isFinite(c.Longitude)
}

func finiteObjectives(o Objectives) error {
	fields := map[string]float64{
		"minimize_distance": o.MinimizeDistance,
		"minimize_time":     o.MinimizeTime,
		"minimize_vehicles": o.MinimizeVehicles,
		"minimize_cost":     o.MinimizeCost,
		"balance_routes":    o.BalanceRoutes,
	}
	for name, v := range fields {
		if !isFinite(v) {
			return NewInvalidRequestError(fmt.Sprintf("objective %q must be finite", name))
		}
		if v < 0 {
			return NewInvalidRequestError(fmt.Sprintf("objective %q must not be negative", name))
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
