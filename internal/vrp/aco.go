package vrp

import (
	"context"
	"math"

	"github.com/fleetcore/vrp-solver/internal/common/logging"
)

// Default Ant Colony Optimization parameters (spec §4.7).
const (
	defaultACOAnts        = 50
	defaultACOIterations  = 200
	acoAlpha              = 1.0 // pheromone exponent
	acoBeta               = 3.0 // heuristic exponent
	acoEvaporationRate    = 0.1
	acoDepositFactor      = 100.0
	acoVisibilityEpsilon  = 0.1
)

// pheromoneMatrix holds trail strength on depot→location edges and
// location→location edges separately, since every route's first leg
// starts from the depot rather than from another customer.
type pheromoneMatrix struct {
	depot []float64   // depot -> location i
	edge  [][]float64 // location i -> location j
}

func newPheromoneMatrix(n int) *pheromoneMatrix {
	depot := make([]float64, n)
	edge := make([][]float64, n)
	for i := range depot {
		depot[i] = 1.0
	}
	for i := range edge {
		edge[i] = make([]float64, n)
		for j := range edge[i] {
			edge[i][j] = 1.0
		}
	}
	return &pheromoneMatrix{depot: depot, edge: edge}
}

func (p *pheromoneMatrix) evaporate(rho float64) {
	for i := range p.depot {
		p.depot[i] *= (1 - rho)
	}
	for i := range p.edge {
		for j := range p.edge[i] {
			p.edge[i][j] *= (1 - rho)
		}
	}
}

// antTrail records the edges one ant's solution actually used, so deposit
// can be applied after all ants finish constructing (spec §4.7: "evaporate
// then deposit", a serial barrier between iterations).
type antTrail struct {
	depotIdx []int     // indices of each route's first stop
	edges    [][2]int  // (i,j) location-index pairs used within routes
	totalKm  float64
}

// RunAntColony runs the Ant Colony Optimization engine (spec §4.7). It has
// no direct teacher precedent; it is built in the same per-iteration,
// pool-parallel-construction-then-serial-update shape as RunGenetic,
// reusing the same Evaluator/Fitness/Pool collaborators.
func RunAntColony(ctx context.Context, req *Request, eval *Evaluator, matrix *DistanceMatrix, pool *Pool, rng *Source, sink EventSink, logger *logging.Logger) (best *Solution, iterationsRun int, cancelled bool) {
	ants := defaultACOAnts
	iterations := defaultACOIterations

	locByID := make(map[string]Location, len(req.Locations))
	locIDs := make([]string, len(req.Locations))
	idx := make(map[string]int, len(req.Locations))
	for i, l := range req.Locations {
		locByID[l.ID] = l
		locIDs[i] = l.ID
		idx[l.ID] = i
	}

	pher := newPheromoneMatrix(len(locIDs))
	fit := NewFitness(req.Objectives, len(req.Vehicles))

	var bestScore = -1.0

	for it := 0; it < iterations; it++ {
		select {
		case <-ctx.Done():
			cancelled = true
		default:
		}
		if cancelled {
			iterationsRun = it
			break
		}

		type antResult struct {
			sol   *Solution
			trail antTrail
		}
		results := MapCollect(pool, ctx, rng, ants, func(_ context.Context, _ int, itemRNG *Source) antResult {
			stopsByVehicle, unassigned, trail := constructAntSolution(req, locByID, locIDs, idx, pher, matrix, itemRNG)
			sol := buildSolution(stopsByVehicle, unassigned, req, eval)
			trail.totalKm = Aggregate(sol).TotalDistanceKm
			return antResult{sol: sol, trail: trail}
		})
		if ctx.Err() != nil {
			// A cancelled batch may have left some ants unbuilt; discard it.
			cancelled = true
			iterationsRun = it
			break
		}

		pher.evaporate(acoEvaporationRate)
		for _, r := range results {
			if r.trail.totalKm <= 0 {
				continue
			}
			deposit := acoDepositFactor / r.trail.totalKm
			for _, di := range r.trail.depotIdx {
				pher.depot[di] += deposit
			}
			for _, e := range r.trail.edges {
				pher.edge[e[0]][e[1]] += deposit
			}
		}

		for _, r := range results {
			score := fit.Score(r.sol)
			if score > bestScore {
				bestScore = score
				best = r.sol
			}
		}

		if sink != nil {
			emitProgress(sink, string(AlgorithmAntColony), it, bestScore, fit.Cost(best), nil)
		}
		if logger != nil {
			logger.LogIteration(string(AlgorithmAntColony), it, bestScore, fit.Cost(best))
		}

		iterationsRun = it + 1
	}

	if best == nil {
		// Cancelled before any iteration finished: fall back to the
		// nearest-neighbour construction so a valid Solution is returned.
		best = Construct(req, eval, matrix)
	}
	return best, iterationsRun, cancelled
}

// constructAntSolution builds one ant's Solution by probabilistic nearest-
// neighbour-style construction over the pheromone/visibility product (spec
// §4.7).
func constructAntSolution(req *Request, locByID map[string]Location, locIDs []string, idx map[string]int, pher *pheromoneMatrix, matrix *DistanceMatrix, rng *Source) (stopsByVehicle [][]string, unassigned []string, trail antTrail) {
	unvisited := make(map[string]bool, len(locIDs))
	for _, id := range locIDs {
		unvisited[id] = true
	}

	stopsByVehicle = make([][]string, len(req.Vehicles))

	for vIdx, vehicle := range req.Vehicles {
		if len(unvisited) == 0 {
			break
		}

		var stops []string
		load := Demand{}
		currentIdx := -1 // -1 denotes the depot; visibility/pheromone fall back to the depot's row

		for {
			candidates := make([]string, 0, len(unvisited))
			for id := range unvisited {
				if vehicle.Capacity.Fits(load.Add(locByID[id].Demand)) {
					candidates = append(candidates, id)
				}
			}
			if len(candidates) == 0 {
				break
			}
			sortStrings(candidates)

			weights := make([]float64, len(candidates))
			total := 0.0
			for i, id := range candidates {
				j := idx[id]
				var tau float64
				var dist float64
				if currentIdx < 0 {
					tau = pher.depot[j]
					dist = matrix.Between(req.Depot.ID, req.Depot.Coordinate, id, locByID[id].Coordinate)
				} else {
					tau = pher.edge[currentIdx][j]
					fromID := locIDs[currentIdx]
					dist = matrix.Between(fromID, locByID[fromID].Coordinate, id, locByID[id].Coordinate)
				}
				eta := 1.0 / (dist + acoVisibilityEpsilon)
				w := math.Pow(tau, acoAlpha) * math.Pow(eta, acoBeta)
				weights[i] = w
				total += w
			}

			chosen := candidates[len(candidates)-1]
			if total > 0 {
				r := rng.Float64() * total
				cum := 0.0
				for i, w := range weights {
					cum += w
					if r <= cum {
						chosen = candidates[i]
						break
					}
				}
			} else {
				chosen = candidates[rng.Intn(len(candidates))]
			}

			j := idx[chosen]
			if currentIdx < 0 {
				trail.depotIdx = append(trail.depotIdx, j)
			} else {
				trail.edges = append(trail.edges, [2]int{currentIdx, j})
			}

			stops = append(stops, chosen)
			load = load.Add(locByID[chosen].Demand)
			delete(unvisited, chosen)
			currentIdx = j
		}

		stopsByVehicle[vIdx] = stops
	}

	unassigned = make([]string, 0, len(unvisited))
	for id := range unvisited {
		unassigned = append(unassigned, id)
	}
	sortStrings(unassigned)

	return stopsByVehicle, unassigned, trail
}
