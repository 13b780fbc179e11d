package vrp

// decodeChromosome splits a permutation of all customer location IDs into
// per-vehicle stop sequences (spec §4.6): walk the permutation, assigning
// each gene to the current vehicle while capacity holds; when a gene would
// break capacity, advance to the next vehicle. Genes that fit no
// remaining vehicle are returned as unassigned.
func decodeChromosome(perm []string, req *Request, locByID map[string]Location) (stopsByVehicle [][]string, unassigned []string) {
	stopsByVehicle = make([][]string, len(req.Vehicles))
	if len(req.Vehicles) == 0 {
		return stopsByVehicle, append([]string(nil), perm...)
	}

	vehicleIdx := 0
	load := Demand{}
	current := make([]string, 0)

	flush := func() {
		stopsByVehicle[vehicleIdx] = current
		current = make([]string, 0)
		load = Demand{}
	}

	for _, id := range perm {
		loc := locByID[id]

		for vehicleIdx < len(req.Vehicles) && !req.Vehicles[vehicleIdx].Capacity.Fits(load.Add(loc.Demand)) {
			flush()
			vehicleIdx++
		}
		if vehicleIdx >= len(req.Vehicles) {
			unassigned = append(unassigned, id)
			continue
		}

		current = append(current, id)
		load = load.Add(loc.Demand)
	}
	if vehicleIdx < len(req.Vehicles) {
		stopsByVehicle[vehicleIdx] = current
	}

	return stopsByVehicle, unassigned
}

// buildSolution evaluates each vehicle's decoded stop sequence and
// assembles a Solution. Vehicles with no assigned stops are omitted from
// Routes entirely, matching Construct's convention.
func buildSolution(stopsByVehicle [][]string, unassigned []string, req *Request, eval *Evaluator) *Solution {
	routes := make([]Route, 0, len(req.Vehicles))
	for i, stops := range stopsByVehicle {
		if len(stops) == 0 {
			continue
		}
		vehicle := req.Vehicles[i]
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

	rest := append([]string(nil), unassigned...)
	sortStrings(rest)

	return &Solution{ID: newID(), Routes: routes, Unassigned: rest}
}
