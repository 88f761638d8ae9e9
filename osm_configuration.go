package trafsim

import (
	"strings"
)

const (
	DEFAULT_HIGHWAY_TAGS = "motorway,primary,primary_link,road,secondary,secondary_link,residential,tertiary,tertiary_link,unclassified,trunk,trunk_link,motorway_link,living_street,service"
)

// OsmConfiguration Allows to filter ways by certain tags from OSM data
type OsmConfiguration struct {
	EntityName string // Currrently we support 'highway' only
	Tags       []string
	// CarsOnly drops ways closed to cars by access tags
	CarsOnly bool
}

// DefaultOsmConfiguration returns configuration accepting common drivable highways
func DefaultOsmConfiguration() *OsmConfiguration {
	return &OsmConfiguration{
		EntityName: "highway",
		Tags:       ParseTags(DEFAULT_HIGHWAY_TAGS),
		CarsOnly:   true,
	}
}

// ParseTags splits comma separated list of tag values skipping blanks
func ParseTags(str string) []string {
	parts := strings.Split(str, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

// CheckTag Checks if incoming tag is represented in configuration. Empty list accepts everything.
func (cfg *OsmConfiguration) CheckTag(tag string) bool {
	if len(cfg.Tags) == 0 {
		return true
	}
	for i := range cfg.Tags {
		if cfg.Tags[i] == tag {
			return true
		}
	}
	return false
}
