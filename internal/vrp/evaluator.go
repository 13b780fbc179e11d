package vrp

import "time"

// Evaluator computes route metrics and feasibility violations from a
// candidate stop sequence. It is pure, deterministic and safe to call
// concurrently from many goroutines (spec §4.2): it never mutates its
// inputs and holds no state of its own beyond the read-only lookups handed
// to NewEvaluator.
type Evaluator struct {
	depot       Location
	locByID     map[string]Location
	constraints Constraints
	matrix      *DistanceMatrix
}

// NewEvaluator builds an Evaluator for one solve's depot/location set.
func NewEvaluator(depot Location, locations []Location, constraints Constraints, matrix *DistanceMatrix) *Evaluator {
	byID := make(map[string]Location, len(locations))
	for _, l := range locations {
		byID[l.ID] = l
	}
	return &Evaluator{depot: depot, locByID: byID, constraints: constraints, matrix: matrix}
}

// Evaluate walks stops (ordered customer location IDs, depot excluded)
// starting and ending at the depot (or the vehicle's distinct end
// coordinate, when supplied), producing the full RouteMetrics, per-stop
// StopTiming and Violation list (spec §4.2).
func (e *Evaluator) Evaluate(stops []string, vehicle Vehicle) (RouteMetrics, []StopTiming, []Violation) {
	var violations []Violation
	timing := make([]StopTiming, 0, len(stops))

	clock := vehicle.AvailableFrom
	load := Demand{}
	totalDistance := 0.0

	prevID := e.depot.ID
	prevCoord := e.depot.Coordinate
	if vehicle.StartLocation != (Coordinate{}) {
		prevCoord = vehicle.StartLocation
	}

	for _, id := range stops {
		loc := e.locByID[id]

		legDist := e.matrix.Between(prevID, prevCoord, id, loc.Coordinate)
		totalDistance += legDist

		travelMinutes := travelTimeMinutes(legDist, vehicle.Speed)
		clock = clock.Add(time.Duration(travelMinutes * float64(time.Minute)))
		arrival := clock

		wait := time.Duration(0)
		if loc.TimeWindow != nil && !loc.TimeWindow.IsZero() {
			if arrival.Before(loc.TimeWindow.Earliest) {
				wait = loc.TimeWindow.Earliest.Sub(arrival)
				clock = loc.TimeWindow.Earliest
			}
			if clock.After(loc.TimeWindow.Latest) {
				violations = append(violations, Violation{
					Kind:        ViolationTimeWindowMissed,
					Severity:    SeverityError,
					Description: "arrival at " + loc.ID + " misses its time window",
				})
			}
		}

		serviceDuration := time.Duration(loc.ServiceTime) * time.Minute
		clock = clock.Add(serviceDuration)

		load = load.Add(loc.Demand)
		if !vehicle.Capacity.Fits(load) {
			violations = append(violations, Violation{
				Kind:        ViolationCapacityExceeded,
				Severity:    SeverityError,
				Description: "cumulative load after " + loc.ID + " exceeds vehicle capacity",
			})
		}

		for _, tag := range loc.SpecialRequirements {
			if !vehicle.HasFeature(tag) {
				violations = append(violations, Violation{
					Kind:        ViolationFeatureRequirementUnmet,
					Severity:    SeverityError,
					Description: "location " + loc.ID + " requires feature \"" + tag + "\" the vehicle lacks",
				})
			}
		}

		timing = append(timing, StopTiming{
			LocationID:      id,
			Arrival:         arrival,
			Departure:       clock,
			Wait:            wait,
			ServiceDuration: serviceDuration,
			CumulativeLoad:  load,
		})

		prevID = id
		prevCoord = loc.Coordinate
	}

	endCoord := e.depot.Coordinate
	if vehicle.EndLocation != nil {
		endCoord = *vehicle.EndLocation
	}
	returnDist := Distance(prevCoord, endCoord)
	totalDistance += returnDist
	returnMinutes := travelTimeMinutes(returnDist, vehicle.Speed)
	clock = clock.Add(time.Duration(returnMinutes * float64(time.Minute)))

	totalMinutes := clock.Sub(vehicle.AvailableFrom).Minutes()
	if totalMinutes < 0 {
		totalMinutes = 0
	}

	if !vehicle.AvailableUntil.IsZero() && clock.After(vehicle.AvailableUntil) {
		violations = append(violations, Violation{
			Kind:        ViolationVehicleAvailabilityMiss,
			Severity:    SeverityError,
			Description: "route completes after the vehicle's availability window",
		})
	}

	if e.constraints.MaxRouteTime != nil && totalMinutes > float64(*e.constraints.MaxRouteTime) {
		violations = append(violations, Violation{
			Kind:        ViolationRouteDurationExceeded,
			Severity:    SeverityError,
			Description: "route duration exceeds the configured maximum",
		})
	}
	if e.constraints.MaxRouteDistance != nil && totalDistance > *e.constraints.MaxRouteDistance {
		violations = append(violations, Violation{
			Kind:        ViolationRouteDistanceExceeded,
			Severity:    SeverityError,
			Description: "route distance exceeds the configured maximum",
		})
	}

	totalCost := vehicle.FixedCost + totalDistance*vehicle.CostPerKm + (totalMinutes/60.0)*vehicle.CostPerHour

	wFrac, vFrac, pFrac := vehicle.Capacity.UtilizationFractions(load)
	utilization := (wFrac + vFrac + pFrac) / 3.0 * 100.0

	metrics := RouteMetrics{
		TotalDistanceKm: totalDistance,
		TotalTimeMin:    totalMinutes,
		TotalCost:       totalCost,
		UtilizationPct:  utilization,
		StopCount:       len(stops),
	}

	return metrics, timing, violations
}

// travelTimeMinutes converts a distance/speed pair into minutes, guarding
// against a zero or negative speed (which would otherwise divide by zero).
func travelTimeMinutes(distanceKm, speedKmh float64) float64 {
	if speedKmh <= 0 {
		return 0
	}
	return distanceKm / speedKmh * 60.0
}
