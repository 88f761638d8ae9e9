package trafsim

// EdgeIndicators accumulates load of a single edge during a routing pass
type EdgeIndicators struct {
	// VehicleCount is the number of vehicles whose route traverses the edge
	VehicleCount int
}

func (ind *EdgeIndicators) Reset() {
	ind.VehicleCount = 0
}

// GroupIndicators accumulates results of the journeys of a single vehicle group
type GroupIndicators struct {
	JourneyCount  int
	RoutedCount   int
	UnroutedCount int
	// Distance is the sum of route lengths (meters) weighted by vehicles
	Distance float64
	// Time is the sum of route times (hours) weighted by vehicles
	Time float64
}

func (ind *GroupIndicators) Reset() {
	*ind = GroupIndicators{}
}

// JourneyAvgTime returns mean hours per routed vehicle
func (ind *GroupIndicators) JourneyAvgTime() float64 {
	if ind.RoutedCount == 0 {
		return 0
	}
	return ind.Time / float64(ind.RoutedCount)
}

// JourneyAvgDistance returns mean meters per routed vehicle
func (ind *GroupIndicators) JourneyAvgDistance() float64 {
	if ind.RoutedCount == 0 {
		return 0
	}
	return ind.Distance / float64(ind.RoutedCount)
}

// Indicators holds simulation-wide totals of a routing pass
type Indicators struct {
	TotalJourneyCount  int     `json:"total_journey_count"`
	TotalRoutedCount   int     `json:"total_routed_count"`
	TotalUnroutedCount int     `json:"total_unrouted_count"`
	TotalDistance      float64 `json:"total_distance"`
	TotalTime          float64 `json:"total_time"`
	JourneyAvgTime     float64 `json:"journey_avg_time"`
	JourneyAvgDistance float64 `json:"journey_avg_distance"`
	MaxVehiclesPerEdge int     `json:"max_vehicles_per_edge"`
}

// Reset clears every total, the edge peak included
func (ind *Indicators) Reset() {
	*ind = Indicators{}
}

// UpdateGroup adds group totals. Groups without journeys are skipped.
func (ind *Indicators) UpdateGroup(group *GroupIndicators) {
	if group.JourneyCount <= 0 {
		return
	}
	ind.TotalJourneyCount += group.JourneyCount
	ind.TotalRoutedCount += group.RoutedCount
	ind.TotalUnroutedCount += group.UnroutedCount
	ind.TotalDistance += group.Distance
	ind.TotalTime += group.Time
}

// UpdateEdge raises the edge peak when needed
func (ind *Indicators) UpdateEdge(edge *EdgeIndicators) {
	if edge.VehicleCount > ind.MaxVehiclesPerEdge {
		ind.MaxVehiclesPerEdge = edge.VehicleCount
	}
}

// UpdateAverages recomputes means per routed vehicle
func (ind *Indicators) UpdateAverages() {
	if ind.TotalRoutedCount == 0 {
		ind.JourneyAvgTime = 0
		ind.JourneyAvgDistance = 0
		return
	}
	ind.JourneyAvgTime = ind.TotalTime / float64(ind.TotalRoutedCount)
	ind.JourneyAvgDistance = ind.TotalDistance / float64(ind.TotalRoutedCount)
}

// Evaluate recomputes totals from scratch using current group and edge accumulators
func (ind *Indicators) Evaluate(simulation *Simulation) {
	ind.Reset()
	if simulation == nil {
		return
	}
	for _, vehicleGroup := range simulation.Vehicles.Groups() {
		ind.UpdateGroup(&vehicleGroup.indicators)
	}
	for _, edge := range simulation.RoadGraph.Edges() {
		ind.UpdateEdge(&edge.indicators)
	}
	ind.UpdateAverages()
}
