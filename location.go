package trafsim

import (
	"github.com/pkg/errors"
)

// Location is a named place vehicles depart from or travel to
type Location struct {
	Name  string
	Label string
	Point Point
	// Origin locations are never routed to
	Origin bool
}

// Geometry implements Feature
func (location *Location) Geometry() []Point {
	return []Point{location.Point}
}

// IsDestination returns true for locations which can end a journey
func (location *Location) IsDestination() bool {
	return !location.Origin
}

// Locations is the layer of named places. Names are unique: adding a location with a taken name replaces the previous one.
type Locations struct {
	features []*Location
	byName   map[string]*Location
}

func NewLocations() *Locations {
	return &Locations{
		features: make([]*Location, 0),
		byName:   make(map[string]*Location),
	}
}

// Location returns location by name
func (locations *Locations) Location(name string) (*Location, bool) {
	location, ok := locations.byName[name]
	return location, ok
}

// AddLocation registers location
func (locations *Locations) AddLocation(location *Location) {
	if location == nil {
		return
	}
	if previous, ok := locations.byName[location.Name]; ok {
		if previous == location {
			return
		}
		locations.RemoveLocation(previous)
	}
	locations.features = append(locations.features, location)
	locations.byName[location.Name] = location
}

// RemoveLocation unregisters location
func (locations *Locations) RemoveLocation(location *Location) {
	for i := range locations.features {
		if locations.features[i] == location {
			locations.features = append(locations.features[:i], locations.features[i+1:]...)
			delete(locations.byName, location.Name)
			return
		}
	}
}

// All returns locations in insertion order
func (locations *Locations) All() []*Location {
	return locations.features
}

func (locations *Locations) Len() int {
	return len(locations.features)
}

func (locations *Locations) Clear() {
	locations.features = make([]*Location, 0)
	locations.byName = make(map[string]*Location)
}

// Name implements Layer
func (locations *Locations) Name() string {
	return "Locations"
}

// Add implements Layer
func (locations *Locations) Add(feature Feature) error {
	location, ok := feature.(*Location)
	if !ok {
		return errors.Wrapf(ErrFeatureKind, "%s can't hold %T", locations.Name(), feature)
	}
	locations.AddLocation(location)
	return nil
}

// Remove implements Layer
func (locations *Locations) Remove(feature Feature) error {
	location, ok := feature.(*Location)
	if !ok {
		return errors.Wrapf(ErrFeatureKind, "%s can't hold %T", locations.Name(), feature)
	}
	locations.RemoveLocation(location)
	return nil
}

// Transform implements Layer
func (locations *Locations) Transform(feature Feature, m Matrix) error {
	location, ok := feature.(*Location)
	if !ok {
		return errors.Wrapf(ErrFeatureKind, "%s can't hold %T", locations.Name(), feature)
	}
	location.Point = m.Apply(location.Point)
	return nil
}

// Features implements Layer
func (locations *Locations) Features() []Feature {
	features := make([]Feature, len(locations.features))
	for i := range locations.features {
		features[i] = locations.features[i]
	}
	return features
}
