package vrp

// Move operators (spec §4.5). Each is a stateless, pure transformation:
// given a Solution (or, for the permutation-level operators, a chromosome),
// it returns a new value and never mutates its input. Callers re-evaluate
// metrics afterwards via Evaluator.

// cloneSolution returns a deep copy of sol's route/stop structure. Metrics
// and violations are copied too but callers that mutate Stops must
// re-evaluate them — they are left stale on purpose rather than zeroed, so
// a move that turns out to be a no-op (e.g. TwoOpt on a solution with no
// route long enough) still returns a solution with valid metrics.
func cloneSolution(sol *Solution) *Solution {
	clone := &Solution{
		ID:         sol.ID,
		Routes:     make([]Route, len(sol.Routes)),
		Unassigned: append([]string(nil), sol.Unassigned...),
	}
	for i, r := range sol.Routes {
		clone.Routes[i] = Route{
			ID:         r.ID,
			VehicleID:  r.VehicleID,
			Stops:      append([]string(nil), r.Stops...),
			Metrics:    r.Metrics,
			Violations: append([]Violation(nil), r.Violations...),
		}
	}
	return clone
}

// TwoOpt picks one route with at least 3 stops and reverses the segment
// between two random indices.
func TwoOpt(sol *Solution, rng *Source) *Solution {
	clone := cloneSolution(sol)

	candidates := make([]int, 0, len(clone.Routes))
	for i, r := range clone.Routes {
		if len(r.Stops) >= 3 {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return clone
	}

	r := candidates[rng.Intn(len(candidates))]
	stops := clone.Routes[r].Stops
	i := rng.Intn(len(stops))
	j := rng.Intn(len(stops))
	if i == j {
		return clone
	}
	if i > j {
		i, j = j, i
	}
	reverse(stops[i : j+1])
	return clone
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Relocate moves one stop from a random route to a random insertion point
// in a different route.
func Relocate(sol *Solution, rng *Source) *Solution {
	clone := cloneSolution(sol)
	if len(clone.Routes) < 2 {
		return clone
	}

	donors := make([]int, 0, len(clone.Routes))
	for i, r := range clone.Routes {
		if len(r.Stops) > 0 {
			donors = append(donors, i)
		}
	}
	if len(donors) == 0 {
		return clone
	}

	a := donors[rng.Intn(len(donors))]
	b := rng.Intn(len(clone.Routes))
	for b == a {
		b = rng.Intn(len(clone.Routes))
	}

	fromStops := clone.Routes[a].Stops
	idx := rng.Intn(len(fromStops))
	stop := fromStops[idx]
	clone.Routes[a].Stops = append(fromStops[:idx], fromStops[idx+1:]...)

	toStops := clone.Routes[b].Stops
	insertAt := 0
	if len(toStops) > 0 {
		insertAt = rng.Intn(len(toStops) + 1)
	}
	newTo := make([]string, 0, len(toStops)+1)
	newTo = append(newTo, toStops[:insertAt]...)
	newTo = append(newTo, stop)
	newTo = append(newTo, toStops[insertAt:]...)
	clone.Routes[b].Stops = newTo

	return clone
}

// Swap exchanges one stop between two different routes.
func Swap(sol *Solution, rng *Source) *Solution {
	clone := cloneSolution(sol)

	candidates := make([]int, 0, len(clone.Routes))
	for i, r := range clone.Routes {
		if len(r.Stops) > 0 {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) < 2 {
		return clone
	}

	ai := candidates[rng.Intn(len(candidates))]
	bi := candidates[rng.Intn(len(candidates))]
	for bi == ai {
		bi = candidates[rng.Intn(len(candidates))]
	}

	aStops := clone.Routes[ai].Stops
	bStops := clone.Routes[bi].Stops
	aIdx := rng.Intn(len(aStops))
	bIdx := rng.Intn(len(bStops))
	aStops[aIdx], bStops[bIdx] = bStops[bIdx], aStops[aIdx]

	return clone
}

// OrderCrossover (OX) produces a child permutation from two parents: a
// random contiguous segment of parent1 is copied verbatim, and the
// remaining slots are filled, wrapping from the segment's end, with
// parent2's genes in order, skipping any already present (spec §4.5).
func OrderCrossover(parent1, parent2 []string, rng *Source) []string {
	n := len(parent1)
	child := make([]string, n)
	if n == 0 {
		return child
	}

	start := rng.Intn(n)
	length := rng.Intn(n) + 1
	end := start + length // exclusive, may wrap past n conceptually

	inSegment := make(map[string]bool, length)
	for k := start; k < end && k < n; k++ {
		child[k] = parent1[k]
		inSegment[parent1[k]] = true
	}
	// Segment may be the whole chromosome; nothing left to fill.
	if len(inSegment) == n {
		return child
	}

	fillPositions := make([]int, 0, n-len(inSegment))
	for k := end % n; k != start || len(fillPositions) == 0; k = (k + 1) % n {
		if child[k] == "" {
			fillPositions = append(fillPositions, k)
		}
		if len(fillPositions) == n-len(inSegment) {
			break
		}
	}

	pos := 0
	for _, gene := range parent2 {
		if inSegment[gene] {
			continue
		}
		if pos >= len(fillPositions) {
			break
		}
		child[fillPositions[pos]] = gene
		pos++
	}

	return child
}

// SwapMutation exchanges two random positions in a permutation, returning
// a new slice.
func SwapMutation(perm []string, rng *Source) []string {
	child := append([]string(nil), perm...)
	if len(child) < 2 {
		return child
	}
	i := rng.Intn(len(child))
	j := rng.Intn(len(child))
	child[i], child[j] = child[j], child[i]
	return child
}
