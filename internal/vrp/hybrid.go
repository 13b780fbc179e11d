package vrp

import (
	"context"

	"github.com/fleetcore/vrp-solver/internal/common/logging"
)

// Reduced-budget Hybrid parameters (spec §4.10).
const (
	hybridGAPopulationSize = 50
	hybridGAGenerations    = 200
	hybridSATemperature    = 1000.0
	hybridSACoolingRate    = 0.99
)

// RunHybrid runs the GA with a reduced budget for broad exploration, then
// seeds Simulated Annealing with the GA's best solution for refinement
// (spec §4.10, §9 hybrid-seeding decision), returning whichever of the two
// final solutions has the lower monetary cost.
func RunHybrid(ctx context.Context, req *Request, eval *Evaluator, pool *Pool, rng *Source, sink EventSink, logger *logging.Logger) (best *Solution, iterationsRun int, cancelled bool) {
	gaReq := *req
	gaParams := req.Parameters
	gaParams.PopulationSize = hybridGAPopulationSize
	gaParams.Generations = hybridGAGenerations
	gaReq.Parameters = gaParams

	gaBest, gaIterations, gaCancelled := RunGenetic(ctx, &gaReq, eval, pool, rng, sink, logger)

	saReq := *req
	saParams := req.Parameters
	saParams.Temperature = hybridSATemperature
	saParams.CoolingRate = hybridSACoolingRate
	saReq.Parameters = saParams

	saBest, saIterations, saCancelled := RunSimulatedAnnealing(ctx, &saReq, eval, rng, gaBest, sink, logger)

	fit := NewFitness(req.Objectives, len(req.Vehicles))
	if fit.Cost(saBest) <= fit.Cost(gaBest) {
		best = saBest
	} else {
		best = gaBest
	}

	iterationsRun = gaIterations + saIterations
	cancelled = gaCancelled || saCancelled
	return best, iterationsRun, cancelled
}
