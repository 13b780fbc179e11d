package vrp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallHybridRequest() *Request {
	req := buildRequest(8, 2)
	req.Seed = 17
	return req
}

func TestRunHybrid_ProducesFeasibleSolution(t *testing.T) {
	req := smallHybridRequest()
	matrix := NewDistanceMatrix(req.Depot, req.Locations)
	eval := NewEvaluator(req.Depot, req.Locations, req.Constraints, matrix)
	pool := NewPool(2)

	sol, iterations, cancelled := RunHybrid(context.Background(), req, eval, pool, NewSource(req.Seed), NoopSink{}, nil)

	require.NotNil(t, sol)
	assert.False(t, cancelled)
	assert.Greater(t, iterations, 0)

	total := len(sol.Unassigned)
	for _, r := range sol.Routes {
		total += len(r.Stops)
	}
	assert.Equal(t, len(req.Locations), total)
}

func TestRunHybrid_NeverWorseThanGAPhase(t *testing.T) {
	req := smallHybridRequest()
	matrix := NewDistanceMatrix(req.Depot, req.Locations)
	eval := NewEvaluator(req.Depot, req.Locations, req.Constraints, matrix)
	pool := NewPool(2)
	fit := NewFitness(req.Objectives, len(req.Vehicles))

	gaReq := *req
	gaParams := req.Parameters
	gaParams.PopulationSize = hybridGAPopulationSize
	gaParams.Generations = hybridGAGenerations
	gaReq.Parameters = gaParams
	gaBest, _, _ := RunGenetic(context.Background(), &gaReq, eval, pool, NewSource(req.Seed), NoopSink{}, nil)

	sol, _, _ := RunHybrid(context.Background(), req, eval, pool, NewSource(req.Seed), NoopSink{}, nil)

	assert.LessOrEqual(t, fit.Cost(sol), fit.Cost(gaBest), "hybrid must never return a costlier solution than the GA phase alone produced")
}

func TestRunHybrid_RespectsCancellation(t *testing.T) {
	req := smallHybridRequest()
	matrix := NewDistanceMatrix(req.Depot, req.Locations)
	eval := NewEvaluator(req.Depot, req.Locations, req.Constraints, matrix)
	pool := NewPool(2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sol, _, cancelled := RunHybrid(ctx, req, eval, pool, NewSource(req.Seed), NoopSink{}, nil)

	require.NotNil(t, sol)
	assert.True(t, cancelled)
}
