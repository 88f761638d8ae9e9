package trafsim

import (
	"fmt"

	"github.com/pkg/errors"
)

// VehicleGroup is a number of vehicles leaving the same point and following the demand pattern of a group
type VehicleGroup struct {
	Point Point
	Count int
	// Group is the name of the demand pattern
	Group string
	// Movements is the resolved allocation per destination. Nil until resolved.
	Movements  Movements
	indicators GroupIndicators
}

// Geometry implements Feature
func (vehicleGroup *VehicleGroup) Geometry() []Point {
	return []Point{vehicleGroup.Point}
}

// Indicators returns accumulator of the last routing pass
func (vehicleGroup *VehicleGroup) Indicators() *GroupIndicators {
	return &vehicleGroup.indicators
}

// Duplicate returns copy with own movements and empty indicators
func (vehicleGroup *VehicleGroup) Duplicate() *VehicleGroup {
	duplicate := &VehicleGroup{
		Point: vehicleGroup.Point,
		Count: vehicleGroup.Count,
		Group: vehicleGroup.Group,
	}
	if vehicleGroup.Movements != nil {
		duplicate.Movements = make(Movements, len(vehicleGroup.Movements))
		for name, count := range vehicleGroup.Movements {
			duplicate.Movements[name] = count
		}
	}
	return duplicate
}

func (vehicleGroup *VehicleGroup) String() string {
	return fmt.Sprintf("VehicleGroup(%s, count: %d, %s)", vehicleGroup.Group, vehicleGroup.Count, vehicleGroup.Point)
}

// Vehicles is the layer of vehicle groups. Order of insertion is the routing order.
type Vehicles struct {
	features []*VehicleGroup
}

func NewVehicles() *Vehicles {
	return &Vehicles{
		features: make([]*VehicleGroup, 0),
	}
}

// AddGroup appends vehicle group. Adding the same group twice does nothing.
func (vehicles *Vehicles) AddGroup(vehicleGroup *VehicleGroup) {
	if vehicleGroup == nil || vehicles.indexOf(vehicleGroup) >= 0 {
		return
	}
	vehicles.features = append(vehicles.features, vehicleGroup)
}

func (vehicles *Vehicles) RemoveGroup(vehicleGroup *VehicleGroup) {
	idx := vehicles.indexOf(vehicleGroup)
	if idx < 0 {
		return
	}
	vehicles.features = append(vehicles.features[:idx], vehicles.features[idx+1:]...)
}

// Groups returns vehicle groups in insertion order
func (vehicles *Vehicles) Groups() []*VehicleGroup {
	return vehicles.features
}

func (vehicles *Vehicles) Len() int {
	return len(vehicles.features)
}

func (vehicles *Vehicles) Clear() {
	vehicles.features = make([]*VehicleGroup, 0)
}

func (vehicles *Vehicles) indexOf(vehicleGroup *VehicleGroup) int {
	for i := range vehicles.features {
		if vehicles.features[i] == vehicleGroup {
			return i
		}
	}
	return -1
}

// Name implements Layer
func (vehicles *Vehicles) Name() string {
	return "Vehicles"
}

// Add implements Layer
func (vehicles *Vehicles) Add(feature Feature) error {
	vehicleGroup, ok := feature.(*VehicleGroup)
	if !ok {
		return errors.Wrapf(ErrFeatureKind, "%s can't hold %T", vehicles.Name(), feature)
	}
	vehicles.AddGroup(vehicleGroup)
	return nil
}

// Remove implements Layer
func (vehicles *Vehicles) Remove(feature Feature) error {
	vehicleGroup, ok := feature.(*VehicleGroup)
	if !ok {
		return errors.Wrapf(ErrFeatureKind, "%s can't hold %T", vehicles.Name(), feature)
	}
	vehicles.RemoveGroup(vehicleGroup)
	return nil
}

// Transform implements Layer
func (vehicles *Vehicles) Transform(feature Feature, m Matrix) error {
	vehicleGroup, ok := feature.(*VehicleGroup)
	if !ok {
		return errors.Wrapf(ErrFeatureKind, "%s can't hold %T", vehicles.Name(), feature)
	}
	vehicleGroup.Point = m.Apply(vehicleGroup.Point)
	return nil
}

// Features implements Layer
func (vehicles *Vehicles) Features() []Feature {
	features := make([]Feature, len(vehicles.features))
	for i := range vehicles.features {
		features[i] = vehicles.features[i]
	}
	return features
}
