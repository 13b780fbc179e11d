package vrp

// Construct builds a feasible initial Solution via nearest-neighbour
// seeding with capacity feasibility (spec §4.4). It also serves as the
// GA's initial-population generator and the SA/Tabu engines' starting
// point.
func Construct(req *Request, eval *Evaluator, matrix *DistanceMatrix) *Solution {
	unassigned := make(map[string]bool, len(req.Locations))
	locByID := make(map[string]Location, len(req.Locations))
	for _, l := range req.Locations {
		unassigned[l.ID] = true
		locByID[l.ID] = l
	}

	routes := make([]Route, 0, len(req.Vehicles))

	for _, vehicle := range req.Vehicles {
		if len(unassigned) == 0 {
			break
		}

		stops := make([]string, 0)
		load := Demand{}
		currentCoord := req.Depot.Coordinate
		if vehicle.StartLocation != (Coordinate{}) {
			currentCoord = vehicle.StartLocation
		}

		for {
			nextID, ok := nearestFeasible(currentCoord, load, vehicle.Capacity, unassigned, locByID)
			if !ok {
				break
			}
			loc := locByID[nextID]
			stops = append(stops, nextID)
			load = load.Add(loc.Demand)
			currentCoord = loc.Coordinate
			delete(unassigned, nextID)
		}

		if len(stops) == 0 {
			continue
		}

		metrics, timing, violations := eval.Evaluate(stops, vehicle)
		routes = append(routes, Route{
			ID:         newID(),
			VehicleID:  vehicle.ID,
			Stops:      stops,
			Timing:     timing,
			Metrics:    metrics,
			Violations: violations,
		})
	}

	remaining := make([]string, 0, len(unassigned))
	for id := range unassigned {
		remaining = append(remaining, id)
	}
	sortStrings(remaining)

	return &Solution{ID: newID(), Routes: routes, Unassigned: remaining}
}

// nearestFeasible finds the closest unassigned location to currentCoord
// whose demand fits within capacity given the load already committed. Ties
// are broken by location ID: unassigned is a map, so candidates are visited
// in a sorted slice rather than raw map iteration order, and only a
// strictly-closer candidate displaces the current best (spec §8 invariant
// 6, "prefer the earlier candidate on exact ties").
func nearestFeasible(currentCoord Coordinate, load Demand, capacity Capacity, unassigned map[string]bool, locByID map[string]Location) (string, bool) {
	candidates := make([]string, 0, len(unassigned))
	for id := range unassigned {
		candidates = append(candidates, id)
	}
	sortStrings(candidates)

	bestID := ""
	bestDist := -1.0

	for _, id := range candidates {
		loc := locByID[id]
		if !capacity.Fits(load.Add(loc.Demand)) {
			continue
		}
		d := Distance(currentCoord, loc.Coordinate)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestID = id
		}
	}

	if bestID == "" {
		return "", false
	}
	return bestID, true
}

// sortStrings is a tiny insertion sort so the unassigned-location list in a
// Solution has a deterministic order independent of map iteration (needed
// for invariant 6, determinism).
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
