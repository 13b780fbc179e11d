package vrp

import (
	"context"
	"math"

	"github.com/fleetcore/vrp-solver/internal/common/logging"
)

// Default Simulated Annealing parameters (spec §4.8).
const (
	defaultSAInitialTemp = 10000.0
	defaultSACoolingRate = 0.995
	defaultSAMinTemp     = 1.0
)

// RunSimulatedAnnealing runs the Simulated Annealing engine (spec §4.8),
// grounded on route_optimizer.go's simulatedAnnealingOptimization: the
// Metropolis acceptance criterion and geometric cooling schedule carry
// over unchanged, generalised from a single-route neighbour generator to
// the shared move operators (2-opt/relocate/swap) operating on a full
// multi-vehicle Solution. seed lets the Hybrid orchestrator (§4.10) start
// SA from the GA's best solution instead of a fresh construction.
func RunSimulatedAnnealing(ctx context.Context, req *Request, eval *Evaluator, rng *Source, seed *Solution, sink EventSink, logger *logging.Logger) (best *Solution, iterationsRun int, cancelled bool) {
	temperature := defaultSAInitialTemp
	if req.Parameters.Temperature > 0 {
		temperature = req.Parameters.Temperature
	}
	coolingRate := defaultSACoolingRate
	if req.Parameters.CoolingRate > 0 {
		coolingRate = req.Parameters.CoolingRate
	}
	minTemp := defaultSAMinTemp

	fit := NewFitness(req.Objectives, len(req.Vehicles))

	current := seed
	if current == nil {
		current = Construct(req, eval, NewDistanceMatrix(req.Depot, req.Locations))
	}
	currentCost := fit.Cost(current)

	best = current
	bestCost := currentCost

	iteration := 0
	for temperature > minTemp {
		select {
		case <-ctx.Done():
			cancelled = true
		default:
		}
		if cancelled {
			break
		}

		neighbor := generateSANeighbor(current, rng)
		reevaluateSolution(neighbor, req, eval)
		neighborCost := fit.Cost(neighbor)

		delta := neighborCost - currentCost
		if delta < 0 || rng.Float64() < math.Exp(-delta/temperature) {
			current = neighbor
			currentCost = neighborCost

			if currentCost < bestCost {
				best = current
				bestCost = currentCost
			}
		}

		if sink != nil {
			emitProgress(sink, string(AlgorithmSimulatedAnneal), iteration, fit.Score(best), bestCost, map[string]any{"temperature": temperature})
		}
		if logger != nil {
			logger.LogIteration(string(AlgorithmSimulatedAnneal), iteration, fit.Score(best), bestCost)
		}

		temperature *= coolingRate
		iteration++
	}

	iterationsRun = iteration
	return best, iterationsRun, cancelled
}

// generateSANeighbor uniformly chooses one move class and applies it
// (spec §4.8 step 1).
func generateSANeighbor(sol *Solution, rng *Source) *Solution {
	switch rng.Intn(3) {
	case 0:
		return TwoOpt(sol, rng)
	case 1:
		return Relocate(sol, rng)
	default:
		return Swap(sol, rng)
	}
}

// reevaluateSolution recomputes every route's metrics/violations/timing in
// place after a move operator has changed its stop order. Move operators
// leave metrics stale by design (see moves.go); this is the one place
// that re-derives them before the solution's cost can be trusted.
func reevaluateSolution(sol *Solution, req *Request, eval *Evaluator) {
	vehicleByID := make(map[string]Vehicle, len(req.Vehicles))
	for _, v := range req.Vehicles {
		vehicleByID[v.ID] = v
	}
	for i, r := range sol.Routes {
		vehicle := vehicleByID[r.VehicleID]
		metrics, timing, violations := eval.Evaluate(r.Stops, vehicle)
		sol.Routes[i].Metrics = metrics
		sol.Routes[i].Timing = timing
		sol.Routes[i].Violations = violations
	}
}
