package trafsim

import (
	"math"
)

const (
	// VEHICLE_LENGTH in meters
	VEHICLE_LENGTH = 4.5
	// VEHICLE_SEPARATION in meters
	VEHICLE_SEPARATION = 2.0
)

// RouteMeter evaluates travel time and capacity. It has no state.
type RouteMeter struct{}

// TimeFor returns hours needed to travel distance (meters) at speed (km/h)
func (RouteMeter) TimeFor(distance, speed float64) float64 {
	return distance / (1000 * speed)
}

// EdgeTime returns hours needed to traverse the whole edge including its fixed delay
func (meter RouteMeter) EdgeTime(edge *Edge) float64 {
	return meter.TimeFor(edge.Length(), edge.Speed) + edge.Delay/3600.0
}

// SectionTime returns hours needed to traverse the section. The edge delay is always paid in full.
func (meter RouteMeter) SectionTime(section *Section) float64 {
	return meter.TimeFor(section.Length(), section.edge.Speed) + section.edge.Delay/3600.0
}

// RouteTime returns total hours, +Inf for empty route
func (meter RouteMeter) RouteTime(route *Route) float64 {
	if route.IsEmpty() {
		return math.Inf(1)
	}
	time := 0.0
	for _, section := range route.sections {
		time += meter.SectionTime(section)
	}
	return time
}

// RouteLength returns total meters, +Inf for empty route
func (RouteMeter) RouteLength(route *Route) float64 {
	return route.Length()
}

// Capacity returns vehicles per minute the edge can carry
func (RouteMeter) Capacity(edge *Edge) float64 {
	return float64(edge.Lanes) * (1000 * edge.Speed) / (60.0 * (VEHICLE_LENGTH + VEHICLE_SEPARATION))
}

// Saturation returns share of capacity used by the vehicles routed over the edge during duration (hours)
func (meter RouteMeter) Saturation(edge *Edge, duration float64) float64 {
	capacity := meter.Capacity(edge)
	if capacity <= 0 || duration <= 0 {
		return 0
	}
	return float64(edge.indicators.VehicleCount) / (capacity * 60 * duration)
}
