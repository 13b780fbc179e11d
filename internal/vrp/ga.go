package vrp

import (
	"context"
	"sort"

	"github.com/fleetcore/vrp-solver/internal/common/logging"
)

// Default Genetic Algorithm parameters (spec §4.6), used whenever a
// Request's Parameters leaves the corresponding field at its zero value.
const (
	defaultGAPopulationSize = 100
	defaultGAGenerations    = 500
	defaultGAMutationRate   = 0.02
	defaultGAEliteSize      = 10
	gaTournamentSize        = 5
)

// gaIndividual pairs a permutation chromosome with its decoded Solution
// and fitness, so elites carry forward to the next generation without
// re-decoding or re-evaluating (spec §4.6 step 5: only offspring are
// re-evaluated).
type gaIndividual struct {
	perm     []string
	solution *Solution
	fitness  float64
}

// RunGenetic runs the Genetic Algorithm engine (spec §4.6), grounded on
// route_optimizer.go's geneticAlgorithmOptimization/tournamentSelection,
// generalised from a single-vehicle permutation to the full multi-vehicle
// decode described by the spec. It returns the best Solution found, the
// number of generations actually run, and whether the run was cancelled
// before completion.
func RunGenetic(ctx context.Context, req *Request, eval *Evaluator, pool *Pool, rng *Source, sink EventSink, logger *logging.Logger) (best *Solution, generationsRun int, cancelled bool) {
	popSize := req.Parameters.PopulationSize
	if popSize <= 0 {
		popSize = defaultGAPopulationSize
	}
	generations := req.Parameters.Generations
	if generations <= 0 {
		generations = defaultGAGenerations
	}
	mutationRate := req.Parameters.MutationRate
	if mutationRate <= 0 {
		mutationRate = defaultGAMutationRate
	}
	eliteSize := req.Parameters.EliteSize
	if eliteSize <= 0 {
		eliteSize = defaultGAEliteSize
	}
	if eliteSize > popSize {
		eliteSize = popSize
	}

	locByID := make(map[string]Location, len(req.Locations))
	genes := make([]string, len(req.Locations))
	for i, l := range req.Locations {
		locByID[l.ID] = l
		genes[i] = l.ID
	}

	fit := NewFitness(req.Objectives, len(req.Vehicles))

	evaluate := func(perm []string) *gaIndividual {
		stopsByVehicle, unassigned := decodeChromosome(perm, req, locByID)
		sol := buildSolution(stopsByVehicle, unassigned, req, eval)
		return &gaIndividual{perm: perm, solution: sol, fitness: fit.Score(sol)}
	}

	population := make([]*gaIndividual, popSize)
	for i := 0; i < popSize; i++ {
		perm := randomPermutation(genes, rng)
		population[i] = evaluate(perm)
	}

	var bestIndividual *gaIndividual

	for gen := 0; gen < generations; gen++ {
		select {
		case <-ctx.Done():
			cancelled = true
		default:
		}

		sort.SliceStable(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})

		if bestIndividual == nil || population[0].fitness > bestIndividual.fitness {
			bestIndividual = population[0]
		}

		if sink != nil {
			emitProgress(sink, string(AlgorithmGenetic), gen, bestIndividual.fitness, fit.Cost(bestIndividual.solution), nil)
		}
		if logger != nil {
			logger.LogIteration(string(AlgorithmGenetic), gen, bestIndividual.fitness, fit.Cost(bestIndividual.solution))
		}

		if cancelled {
			generationsRun = gen + 1
			break
		}

		next := make([]*gaIndividual, popSize)
		copy(next[:eliteSize], population[:eliteSize])

		offspringCount := popSize - eliteSize
		offspringPerms := MapCollect(pool, ctx, rng, offspringCount, func(_ context.Context, _ int, itemRNG *Source) []string {
			p1 := tournamentSelect(population, itemRNG)
			p2 := tournamentSelect(population, itemRNG)
			child := OrderCrossover(p1.perm, p2.perm, itemRNG)
			if itemRNG.Float64() < mutationRate {
				child = SwapMutation(child, itemRNG)
			}
			return child
		})
		offspring := MapCollect(pool, ctx, rng, offspringCount, func(_ context.Context, i int, _ *Source) *gaIndividual {
			return evaluate(offspringPerms[i])
		})
		if ctx.Err() != nil {
			// A cancelled batch may have left some offspring unbuilt; keep
			// the last complete generation instead.
			cancelled = true
			break
		}
		copy(next[eliteSize:], offspring)

		population = next
		generationsRun = gen + 1
	}

	if bestIndividual == nil {
		bestIndividual = population[0]
	}
	return bestIndividual.solution, generationsRun, cancelled
}

// tournamentSelect draws gaTournamentSize individuals uniformly and
// returns the fittest.
func tournamentSelect(population []*gaIndividual, rng *Source) *gaIndividual {
	best := population[rng.Intn(len(population))]
	for i := 1; i < gaTournamentSize; i++ {
		candidate := population[rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return best
}

// randomPermutation returns a random ordering of genes without mutating
// it.
func randomPermutation(genes []string, rng *Source) []string {
	order := rng.Perm(len(genes))
	perm := make([]string, len(genes))
	for i, idx := range order {
		perm[i] = genes[idx]
	}
	return perm
}
