package vrp

import (
	vrperr "github.com/fleetcore/vrp-solver/pkg/errors"
)

// Error taxonomy (spec §7). Every fatal error aborting a solve is one of
// these, wrapping the shared pkg/errors.AppError.
type Error = vrperr.AppError

const (
	// ErrCodeInvalidRequest marks malformed input: negative capacity,
	// non-finite coordinates, zero objective weights. Fatal.
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	// ErrCodeInternal marks a broken invariant: numeric overflow, NaN
	// distance. Fatal.
	ErrCodeInternal = "INTERNAL"
)

// NewInvalidRequestError reports a fatal input-validation failure.
func NewInvalidRequestError(message string) *Error {
	return &Error{Code: ErrCodeInvalidRequest, Message: message}
}

// NewInternalError reports a fatal broken invariant.
func NewInternalError(message string) *Error {
	return &Error{Code: ErrCodeInternal, Message: message}
}

// InfeasibleInputNote records that total demand exceeds total fleet
// capacity. It is not an error returned to the caller (§7: "solve still
// runs, result lists unassigned locations") — CheckFeasibility exists so a
// caller (or the Solver itself) can log an early, cheap feasibility signal
// without waiting for the full solve to leave locations unassigned.
type InfeasibleInputNote struct {
	TotalDemand   Demand
	TotalCapacity Capacity
}

// CheckFeasibility compares a Request's total demand against its total
// fleet capacity and returns a non-nil note when demand exceeds capacity.
// A nil note does not guarantee every location is served: routing, time
// windows and per-vehicle limits can still leave capacity unused even when
// the naive totals fit.
func CheckFeasibility(req *Request) *InfeasibleInputNote {
	var totalDemand Demand
	for _, loc := range req.Locations {
		totalDemand = totalDemand.Add(loc.Demand)
	}

	var totalCapacity Capacity
	for _, v := range req.Vehicles {
		totalCapacity.Weight += v.Capacity.Weight
		totalCapacity.Volume += v.Capacity.Volume
		totalCapacity.Pallets += v.Capacity.Pallets
	}

	if totalDemand.Weight <= totalCapacity.Weight &&
		totalDemand.Volume <= totalCapacity.Volume &&
		totalDemand.Pallets <= totalCapacity.Pallets {
		return nil
	}

	return &InfeasibleInputNote{TotalDemand: totalDemand, TotalCapacity: totalCapacity}
}
