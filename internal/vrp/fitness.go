package vrp

// Fitness turns a Solution's aggregate route metrics into the two scalars
// every engine needs: a score to maximise and a monetary cost to minimise
// (spec §4.3). Keeping both derived from the same aggregates is what keeps
// tie-breaks consistent across engines (spec §4.3, §5).
type Fitness struct {
	objectives Objectives
	fleetSize  int
}

// NewFitness builds a Fitness evaluator for one solve's objective weights
// and fleet size.
func NewFitness(objectives Objectives, fleetSize int) *Fitness {
	return &Fitness{objectives: objectives, fleetSize: fleetSize}
}

// Aggregates holds the summed/averaged route metrics a Solution reduces to.
type Aggregates struct {
	TotalDistanceKm  float64
	TotalTimeMin     float64
	TotalCost        float64
	RoutesUsed       int
	MeanUtilization  float64 // percent, 0 if no routes
	ViolationCount   int
}

// Aggregate reduces a Solution's routes into Aggregates.
func Aggregate(sol *Solution) Aggregates {
	var agg Aggregates
	utilSum := 0.0
	usedRoutes := 0

	for _, r := range sol.Routes {
		agg.TotalDistanceKm += r.Metrics.TotalDistanceKm
		agg.TotalTimeMin += r.Metrics.TotalTimeMin
		agg.TotalCost += r.Metrics.TotalCost
		agg.ViolationCount += len(r.Violations)
		if len(r.Stops) > 0 {
			usedRoutes++
			utilSum += r.Metrics.UtilizationPct
		}
	}

	agg.RoutesUsed = usedRoutes
	if usedRoutes > 0 {
		agg.MeanUtilization = utilSum / float64(usedRoutes)
	}

	return agg
}

// Score returns the solution's fitness: higher is better, clamped to >= 0
// (spec §4.3).
func (f *Fitness) Score(sol *Solution) float64 {
	agg := Aggregate(sol)
	return f.ScoreAggregates(agg)
}

// ScoreAggregates computes fitness directly from precomputed Aggregates,
// letting callers that already aggregated a candidate (e.g. during
// mutation) avoid walking the routes twice.
func (f *Fitness) ScoreAggregates(agg Aggregates) float64 {
	distanceScore := 10000.0 / (agg.TotalDistanceKm + 1)
	timeScore := 1000.0 / (agg.TotalTimeMin + 1)
	costScore := 10000.0 / (agg.TotalCost + 1)
	vehicleScore := float64(f.fleetSize-agg.RoutesUsed+1) * 100.0
	balanceBonus := agg.MeanUtilization
	penalty := 500.0 * float64(agg.ViolationCount)

	score := costScore*f.objectives.MinimizeCost +
		distanceScore*f.objectives.MinimizeDistance +
		vehicleScore*f.objectives.MinimizeVehicles +
		timeScore*f.objectives.MinimizeTime +
		balanceBonus*f.objectives.BalanceRoutes -
		penalty

	if score < 0 {
		score = 0
	}
	return score
}

// Cost returns the solution's total monetary cost: lower is better. SA and
// Tabu minimise this directly rather than the composite fitness score
// (spec §4.3).
func (f *Fitness) Cost(sol *Solution) float64 {
	return Aggregate(sol).TotalCost
}
