package vrp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallSolverRequest(algorithm Algorithm) *Request {
	req := buildRequest(8, 2)
	req.Algorithm = algorithm
	req.Seed = 2024
	switch algorithm {
	case AlgorithmGenetic:
		req.Parameters = Parameters{PopulationSize: 10, Generations: 5}
	case AlgorithmSimulatedAnneal:
		req.Parameters = Parameters{Temperature: 50, CoolingRate: 0.8}
	}
	return req
}

func TestSolver_Optimize_DispatchesEachAlgorithm(t *testing.T) {
	for _, algo := range []Algorithm{AlgorithmGenetic, AlgorithmAntColony, AlgorithmSimulatedAnneal, AlgorithmTabu} {
		t.Run(string(algo), func(t *testing.T) {
			solver := NewSolver(nil, nil)
			req := smallSolverRequest(algo)

			result, err := solver.Optimize(context.Background(), req)

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, algo, result.Algorithm)
			assert.Equal(t, len(req.Locations), result.Summary.LocationsServed+len(result.UnassignedLocations))
			assert.Equal(t, fixedConvergenceRate, result.QualityMetrics.ConvergenceRate)
			assert.Equal(t, fixedDiversityIndex, result.QualityMetrics.DiversityIndex)
		})
	}
}

func TestSolver_Optimize_HybridReportsDistinctDiversityIndex(t *testing.T) {
	solver := NewSolver(nil, nil)
	req := smallSolverRequest(AlgorithmHybrid)

	result, err := solver.Optimize(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, fixedHybridDiversityIndex, result.QualityMetrics.DiversityIndex)
}

func TestSolver_Optimize_RejectsInvalidRequest(t *testing.T) {
	solver := NewSolver(nil, nil)
	req := smallSolverRequest(AlgorithmGenetic)
	req.Objectives = Objectives{}

	result, err := solver.Optimize(context.Background(), req)

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestSolver_Optimize_UnknownAlgorithm(t *testing.T) {
	solver := NewSolver(nil, nil)
	req := smallSolverRequest(AlgorithmGenetic)
	req.Algorithm = "quantum-annealing"

	result, err := solver.Optimize(context.Background(), req)

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestSolver_Optimize_DeterministicWithExplicitSeed(t *testing.T) {
	solver := NewSolver(nil, nil)
	req := smallSolverRequest(AlgorithmGenetic)

	result1, err1 := solver.Optimize(context.Background(), req)
	result2, err2 := solver.Optimize(context.Background(), req)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, result1.Summary.TotalCost, result2.Summary.TotalCost)
}

func TestSolver_Optimize_ZeroSeedStillSucceeds(t *testing.T) {
	solver := NewSolver(nil, nil)
	req := smallSolverRequest(AlgorithmGenetic)
	req.Seed = 0

	result, err := solver.Optimize(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestAssembleResult_SolutionQualityReflectsCoverage(t *testing.T) {
	req := buildRequest(4, 1)
	sol := &Solution{
		Routes:     []Route{{ID: "r1", VehicleID: req.Vehicles[0].ID, Stops: []string{idFor(0), idFor(1), idFor(2)}}},
		Unassigned: []string{idFor(3)},
	}

	result := assembleResult(req, sol, AlgorithmGenetic, 1, 0, false)

	assert.InDelta(t, 100*3.0/4.0, result.QualityMetrics.SolutionQuality, 0.01)
}
