// Package vrp implements a multi-algorithm capacitated vehicle routing
// solver: nearest-neighbour construction, 2-opt/relocate/swap/OX move
// operators, and Genetic Algorithm, Ant Colony Optimization, Simulated
// Annealing, Tabu Search and Hybrid engines sharing a common route
// evaluator and fitness model.
package vrp

import (
	"time"

	"github.com/google/uuid"
)

// Algorithm is a closed enumeration of the engines the solver can dispatch
// to. It is a tagged union over a string, never a bare string comparison.
type Algorithm string

const (
	AlgorithmGenetic           Algorithm = "genetic"
	AlgorithmAntColony         Algorithm = "ant_colony"
	AlgorithmSimulatedAnneal   Algorithm = "simulated_annealing"
	AlgorithmTabu              Algorithm = "tabu"
	AlgorithmHybrid            Algorithm = "hybrid"
)

// Valid reports whether a is one of the closed set of algorithm tags.
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmGenetic, AlgorithmAntColony, AlgorithmSimulatedAnneal, AlgorithmTabu, AlgorithmHybrid:
		return true
	default:
		return false
	}
}

// ViolationKind is the closed set of feasibility breaches the evaluator can
// record against a route.
type ViolationKind string

const (
	ViolationCapacityExceeded        ViolationKind = "capacity-exceeded"
	ViolationTimeWindowMissed        ViolationKind = "time-window-missed"
	ViolationRouteDurationExceeded   ViolationKind = "route-duration-exceeded"
	ViolationRouteDistanceExceeded   ViolationKind = "route-distance-exceeded"
	ViolationVehicleAvailabilityMiss ViolationKind = "vehicle-availability-missed"
	ViolationFeatureRequirementUnmet ViolationKind = "feature-requirement-unmet"
)

// Severity classifies how serious a Violation is.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// MoveKind is the closed set of move operators (spec §4.5).
type MoveKind string

const (
	MoveTwoOpt         MoveKind = "two-opt"
	MoveRelocate       MoveKind = "relocate"
	MoveSwap           MoveKind = "swap"
	MoveOrderCrossover MoveKind = "order-crossover"
	MoveSwapMutation   MoveKind = "swap-mutation"
)

// Coordinate is a (latitude, longitude) pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Demand is an aggregate load: weight (kg), volume (m3), pallets (count).
// Components aggregate by plain componentwise addition.
type Demand struct {
	Weight  float64 `json:"weight" validate:"gte=0"`
	Volume  float64 `json:"volume" validate:"gte=0"`
	Pallets float64 `json:"pallets" validate:"gte=0"`
}

// Add returns the componentwise sum of d and other.
func (d Demand) Add(other Demand) Demand {
	return Demand{
		Weight:  d.Weight + other.Weight,
		Volume:  d.Volume + other.Volume,
		Pallets: d.Pallets + other.Pallets,
	}
}

// Capacity is the same three scalars as Demand, read as an upper bound.
type Capacity struct {
	Weight  float64 `json:"weight" validate:"gte=0"`
	Volume  float64 `json:"volume" validate:"gte=0"`
	Pallets float64 `json:"pallets" validate:"gte=0"`
}

// Fits reports whether load is componentwise at most c.
func (c Capacity) Fits(load Demand) bool {
	return load.Weight <= c.Weight && load.Volume <= c.Volume && load.Pallets <= c.Pallets
}

// UtilizationFractions returns the weight/volume/pallet fractions of load
// relative to c. A zero capacity component yields a zero fraction rather
// than dividing by zero.
func (c Capacity) UtilizationFractions(load Demand) (weight, volume, pallets float64) {
	if c.Weight > 0 {
		weight = load.Weight / c.Weight
	}
	if c.Volume > 0 {
		volume = load.Volume / c.Volume
	}
	if c.Pallets > 0 {
		pallets = load.Pallets / c.Pallets
	}
	return weight, volume, pallets
}

// TimeWindow is an absolute arrival window: service cannot start before
// Earliest (the vehicle waits) and must start by Latest.
type TimeWindow struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// IsZero reports whether the window is unset.
func (w TimeWindow) IsZero() bool {
	return w.Earliest.IsZero() && w.Latest.IsZero()
}

// Location is a depot or customer stop.
type Location struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Coordinate          Coordinate  `json:"coordinates"`
	TimeWindow          *TimeWindow `json:"timeWindow,omitempty"`
	ServiceTime         int         `json:"serviceTime" validate:"gte=0"` // minutes
	Demand              Demand      `json:"demand"`
	Priority            int         `json:"priority"`
	SpecialRequirements []string    `json:"specialRequirements,omitempty"`
}

// Vehicle is a single fleet unit.
type Vehicle struct {
	ID               string      `json:"id"`
	VehicleNumber    string      `json:"vehicleNumber"`
	Type             string      `json:"type"`
	Capacity         Capacity    `json:"capacity"`
	CostPerKm        float64     `json:"costPerKm" validate:"gte=0"`
	CostPerHour      float64     `json:"costPerHour" validate:"gte=0"`
	FixedCost        float64     `json:"fixedCost" validate:"gte=0"`
	Speed            float64     `json:"speed" validate:"gt=0"` // km/h
	StartLocation     Coordinate  `json:"startLocation"`
	EndLocation       *Coordinate `json:"endLocation,omitempty"`
	AvailableFrom    time.Time   `json:"availableFrom"`
	AvailableUntil   time.Time   `json:"availableUntil"`
	Driver           string      `json:"driver,omitempty"`
	Features         []string    `json:"features,omitempty"`
}

// HasFeature reports whether the vehicle carries the named feature tag.
func (v Vehicle) HasFeature(tag string) bool {
	for _, f := range v.Features {
		if f == tag {
			return true
		}
	}
	return false
}

// Constraints bounds a route's total duration/distance and toggles
// feasibility requirements.
type Constraints struct {
	MaxRouteTime     *int     `json:"maxRouteTime,omitempty"`     // minutes
	MaxRouteDistance *float64 `json:"maxRouteDistance,omitempty"` // km
	RequireTimeWindows bool   `json:"requireTimeWindows"`
	AllowSplitDeliveries bool `json:"allowSplitDeliveries"`
	BalanceWorkload  bool     `json:"balanceWorkload"`
}

// Objectives is the 5-tuple of non-negative weights the fitness function
// blends. At least one must be positive.
type Objectives struct {
	MinimizeCost     float64 `json:"minimizeCost" validate:"gte=0"`
	MinimizeDistance float64 `json:"minimizeDistance" validate:"gte=0"`
	MinimizeVehicles float64 `json:"minimizeVehicles" validate:"gte=0"`
	MinimizeTime     float64 `json:"minimizeTime" validate:"gte=0"`
	BalanceRoutes    float64 `json:"balanceRoutes" validate:"gte=0"`
}

// Sum returns the total of the five weights.
func (o Objectives) Sum() float64 {
	return o.MinimizeCost + o.MinimizeDistance + o.MinimizeVehicles + o.MinimizeTime + o.BalanceRoutes
}

// Parameters carries the optional per-algorithm tuning knobs (spec §6).
// Zero values mean "use the engine's documented default".
type Parameters struct {
	PopulationSize int     `json:"populationSize,omitempty"`
	Generations    int     `json:"generations,omitempty"`
	MutationRate   float64 `json:"mutationRate,omitempty"`
	EliteSize      int     `json:"eliteSize,omitempty"`
	Temperature    float64 `json:"temperature,omitempty"`
	CoolingRate    float64 `json:"coolingRate,omitempty"`
	TabuTenure     int     `json:"tabuTenure,omitempty"`

	// MaxWorkers bounds how many goroutines the shared worker pool (§4.12)
	// uses for per-candidate parallel evaluation. Zero means "let the pool
	// pick a default based on GOMAXPROCS".
	MaxWorkers int `json:"maxWorkers,omitempty"`
}

// Request is the full input to a solve.
type Request struct {
	Depot       Location    `json:"depot"`
	Locations   []Location  `json:"locations" validate:"dive"`
	Vehicles    []Vehicle   `json:"vehicles" validate:"dive"`
	Constraints Constraints `json:"constraints"`
	Objectives  Objectives  `json:"objectives"`
	Algorithm   Algorithm   `json:"algorithm"`
	Parameters  Parameters  `json:"parameters"`

	// Seed makes a solve reproducible (spec §5, §8 invariant 6). Zero means
	// "derive a seed from the current time", which forfeits determinism.
	Seed int64 `json:"seed"`
}

// StopTiming is the per-stop timing detail recorded on a Route.
type StopTiming struct {
	LocationID      string    `json:"locationId"`
	Arrival         time.Time `json:"arrival"`
	Departure       time.Time `json:"departure"`
	Wait            time.Duration `json:"wait"`
	ServiceDuration time.Duration `json:"serviceDuration"`
	CumulativeLoad  Demand    `json:"cumulativeLoad"`
}

// RouteMetrics is the aggregate cost/utilisation summary for one route.
type RouteMetrics struct {
	TotalDistanceKm float64 `json:"totalDistanceKm"`
	TotalTimeMin    float64 `json:"totalTimeMin"`
	TotalCost       float64 `json:"totalCost"`
	UtilizationPct  float64 `json:"utilizationPct"`
	StopCount       int     `json:"stopCount"`
}

// Violation is a single feasibility breach recorded against a route.
type Violation struct {
	Kind        ViolationKind `json:"kind"`
	Severity    Severity      `json:"severity"`
	Description string        `json:"description"`
}

// Route is one vehicle's ordered visit sequence plus its evaluated
// metrics and violations.
type Route struct {
	ID         string       `json:"id"`
	VehicleID  string       `json:"vehicleId"`
	Stops      []string     `json:"stops"` // ordered location IDs, depot excluded
	Timing     []StopTiming `json:"timing"`
	Metrics    RouteMetrics `json:"metrics"`
	Violations []Violation  `json:"violations"`
}

// Solution is a complete assignment of locations to vehicle routes.
type Solution struct {
	ID          string   `json:"id"`
	Routes      []Route  `json:"routes"`
	Unassigned  []string `json:"unassignedLocationIds"`
}

func newID() string {
	return uuid.New().String()
}
