package trafsim

// AccessTag is OSM tag key taking part in car access decision
type AccessTag uint16

const (
	ACCESS_HIGHWAY = AccessTag(iota + 1)
	ACCESS_MOTOR_VEHICLE
	ACCESS_MOTORCAR
	ACCESS_OSM_ACCESS
	ACCESS_SERVICE
	ACCESS_UNDEFINED = AccessTag(0)
)

func (iotaIdx AccessTag) String() string {
	return [...]string{"undefined", "highway", "motor_vehicle", "motorcar", "access", "service"}[iotaIdx]
}

var (
	// carAccessInclude lists tag values granting access to cars regardless of exclusions
	carAccessInclude = map[AccessTag]map[string]struct{}{
		ACCESS_MOTOR_VEHICLE: {
			"yes": struct{}{},
		},
		ACCESS_MOTORCAR: {
			"yes": struct{}{},
		},
	}

	// carAccessExclude lists tag values closing the way to cars
	carAccessExclude = map[AccessTag]map[string]struct{}{
		ACCESS_HIGHWAY: {
			"cycleway":   struct{}{},
			"footway":    struct{}{},
			"pedestrian": struct{}{},
			"steps":      struct{}{},
			"corridor":   struct{}{},
			"elevator":   struct{}{},
			"escalator":  struct{}{},
		},
		ACCESS_MOTOR_VEHICLE: {
			"no": struct{}{},
		},
		ACCESS_MOTORCAR: {
			"no": struct{}{},
		},
		ACCESS_OSM_ACCESS: {
			"private": struct{}{},
			"no":      struct{}{},
		},
		ACCESS_SERVICE: {
			"parking":          struct{}{},
			"parking_aisle":    struct{}{},
			"driveway":         struct{}{},
			"private":          struct{}{},
			"emergency_access": struct{}{},
		},
	}

	junctionTypes = map[string]struct{}{
		"circular":   {},
		"roundabout": {},
	}

	negligibleHighwayTags = map[string]struct{}{
		"path":         {},
		"construction": {},
		"proposed":     {},
		"raceway":      {},
		"bridleway":    {},
		"rest_area":    {},
		"abandoned":    {},
		"planned":      {},
		"trailhead":    {},
		"stairs":       {},
		"dismantled":   {},
		"disused":      {},
		"razed":        {},
		"access":       {},
		"corridor":     {},
		"stop":         {},
	}

	// See ref.: https://wiki.openstreetmap.org/wiki/Tag:oneway%3Dreversible
	onewayReversible = map[string]struct{}{
		"reversible":  {},
		"alternating": {},
	}
)
