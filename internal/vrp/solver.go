package vrp

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/fleetcore/vrp-solver/internal/common/logging"
)

// fixedConvergenceRate and fixedDiversityIndex are kept as constants
// rather than derived statistics (spec §9: "fixed unless the engine
// computes a real value" — none of the five engines here computes one).
// The hybrid orchestrator reports a distinct, slightly higher diversity
// index, reflecting that it samples the solution space two different ways.
const (
	fixedConvergenceRate       = 85.0
	fixedDiversityIndex        = 7.5
	fixedHybridDiversityIndex  = 8.5
)

// Summary is the aggregate, human-facing shape of a Solution (spec §4.11).
type Summary struct {
	TotalDistanceKm   float64 `json:"totalDistanceKm"`
	TotalTimeMin      float64 `json:"totalTimeMin"`
	TotalCost         float64 `json:"totalCost"`
	VehiclesUsed      int     `json:"vehiclesUsed"`
	VehiclesAvailable int     `json:"vehiclesAvailable"`
	MeanUtilization   float64 `json:"meanUtilization"`
	LocationsServed   int     `json:"locationsServed"`
	LocationsTotal    int     `json:"locationsTotal"`
}

// QualityMetrics are the four derived scores reported alongside a result
// (spec §4.11).
type QualityMetrics struct {
	SolutionQuality float64 `json:"solutionQuality"`
	ConvergenceRate float64 `json:"convergenceRate"`
	DiversityIndex  float64 `json:"diversityIndex"`
	BalanceScore    float64 `json:"balanceScore"`
}

// Result is the Solver Entry's single output shape (spec §4.11, §6).
type Result struct {
	Routes              []Route        `json:"routes"`
	UnassignedLocations []string       `json:"unassignedLocations"`
	Summary             Summary        `json:"summary"`
	Algorithm           Algorithm      `json:"algorithm"`
	Iterations          int            `json:"iterations"`
	ComputationTimeSec  float64        `json:"computationTime"`
	QualityMetrics      QualityMetrics `json:"qualityMetrics"`
	Cancelled           bool           `json:"cancelled"`
	Duration            time.Duration  `json:"-"`
}

// Solver dispatches a Request to the appropriate engine and assembles its
// Result (spec §4.11). It is the package's single public entry point; the
// five engines and their shared collaborators (Evaluator, Fitness,
// DistanceMatrix, Pool, Source) are all exercised only through it unless a
// caller deliberately reaches for one directly (e.g. in tests).
type Solver struct {
	Sink   EventSink
	Logger *logging.Logger

	// Cache, when set, serves a repeated (algorithm, seed, fleet,
	// locations) request from Redis instead of re-running the engine. Nil
	// disables caching.
	Cache *ResultCache
}

// NewSolver builds a Solver. A nil sink defaults to NoopSink; a nil logger
// disables structured logging.
func NewSolver(sink EventSink, logger *logging.Logger) *Solver {
	if sink == nil {
		sink = NoopSink{}
	}
	return &Solver{Sink: sink, Logger: logger}
}

// Optimize runs req.Algorithm's engine to completion (or until ctx is
// cancelled) and returns the assembled Result (spec §4.11).
func (s *Solver) Optimize(ctx context.Context, req *Request) (*Result, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	var cacheKey string
	if s.Cache != nil {
		if key, cacheable := RequestHash(req); cacheable {
			cacheKey = key
			if cached, err := s.Cache.Get(ctx, cacheKey); err == nil {
				return cached, nil
			} else if !errors.Is(err, ErrCacheMiss) && s.Logger != nil {
				s.Logger.Warn("result cache read failed", "error", err)
			}
		}
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := NewSource(seed)

	matrix := NewDistanceMatrix(req.Depot, req.Locations)
	eval := NewEvaluator(req.Depot, req.Locations, req.Constraints, matrix)
	pool := NewPool(req.Parameters.MaxWorkers)

	if s.Logger != nil {
		s.Logger.LogSolveStart(string(req.Algorithm), len(req.Locations), len(req.Vehicles), seed)
		if note := CheckFeasibility(req); note != nil {
			s.Logger.Warn("total demand exceeds total fleet capacity",
				"totalDemand", note.TotalDemand, "totalCapacity", note.TotalCapacity)
		}
	}

	start := time.Now()

	var (
		solution   *Solution
		iterations int
		cancelled  bool
	)

	switch req.Algorithm {
	case AlgorithmGenetic:
		solution, iterations, cancelled = RunGenetic(ctx, req, eval, pool, rng, s.Sink, s.Logger)
	case AlgorithmAntColony:
		solution, iterations, cancelled = RunAntColony(ctx, req, eval, matrix, pool, rng, s.Sink, s.Logger)
	case AlgorithmSimulatedAnneal:
		solution, iterations, cancelled = RunSimulatedAnnealing(ctx, req, eval, rng, nil, s.Sink, s.Logger)
	case AlgorithmTabu:
		solution, iterations, cancelled = RunTabuSearch(ctx, req, eval, rng, s.Sink, s.Logger)
	case AlgorithmHybrid:
		solution, iterations, cancelled = RunHybrid(ctx, req, eval, pool, rng, s.Sink, s.Logger)
	default:
		return nil, NewInvalidRequestError("unknown algorithm: " + string(req.Algorithm))
	}

	duration := time.Since(start)
	result := assembleResult(req, solution, req.Algorithm, iterations, duration, cancelled)

	if s.Logger != nil {
		fitness := NewFitness(req.Objectives, len(req.Vehicles)).Score(solution)
		s.Logger.LogSolveComplete(string(req.Algorithm), iterations, duration, fitness, cancelled)
	}
	emitCompleted(s.Sink, result)

	if s.Cache != nil && cacheKey != "" {
		if err := s.Cache.Set(ctx, cacheKey, result); err != nil && s.Logger != nil {
			s.Logger.Warn("result cache write failed", "error", err)
		}
	}

	return result, nil
}

// assembleResult builds the Solver Entry's output shape from a raw
// Solution (spec §4.11).
func assembleResult(req *Request, sol *Solution, algorithm Algorithm, iterations int, duration time.Duration, cancelled bool) *Result {
	agg := Aggregate(sol)

	locationsTotal := len(req.Locations)
	locationsServed := locationsTotal - len(sol.Unassigned)

	solutionQuality := 0.0
	if locationsTotal > 0 {
		solutionQuality = math.Min(100, 100*float64(locationsServed)/float64(locationsTotal))
	}

	diversityIndex := fixedDiversityIndex
	if algorithm == AlgorithmHybrid {
		diversityIndex = fixedHybridDiversityIndex
	}

	balanceScore := math.Max(0, 100-math.Abs(agg.MeanUtilization-75))

	return &Result{
		Routes:              sol.Routes,
		UnassignedLocations: sol.Unassigned,
		Summary: Summary{
			TotalDistanceKm:   agg.TotalDistanceKm,
			TotalTimeMin:      agg.TotalTimeMin,
			TotalCost:         agg.TotalCost,
			VehiclesUsed:      agg.RoutesUsed,
			VehiclesAvailable: len(req.Vehicles),
			MeanUtilization:   agg.MeanUtilization,
			LocationsServed:   locationsServed,
			LocationsTotal:    locationsTotal,
		},
		Algorithm:          algorithm,
		Iterations:         iterations,
		ComputationTimeSec: math.Round(duration.Seconds()*1000) / 1000,
		QualityMetrics: QualityMetrics{
			SolutionQuality: solutionQuality,
			ConvergenceRate: fixedConvergenceRate,
			DiversityIndex:  diversityIndex,
			BalanceScore:    balanceScore,
		},
		Cancelled: cancelled,
		Duration:  duration,
	}
}
