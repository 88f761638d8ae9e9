package trafsim

import (
	"regexp"
	"strconv"

	"github.com/paulmach/osm"
	"go.uber.org/zap"
)

const (
	mphToKmh = 1.609344
)

var (
	maxSpeedRegExp = regexp.MustCompile(`^\s*(\d+\.?\d*)\s*(mph|km/h|kmh|kph)?\s*$`)
	lanesRegExp    = regexp.MustCompile(`\d+`)
)

// osmWay is a way of the OSM extract with flattened tags
type osmWay struct {
	TagMap        osm.Tags
	Nodes         []osm.NodeID
	highway       string
	junction      string
	area          string
	motorVehicle  string
	motorcar      string
	access        string
	service       string
	ID            osm.WayID
	lanes         int
	lanesForward  int
	lanesBackward int
	maxSpeed      float64
	highwayType   HighwayType
	Oneway        bool
	IsReversed    bool
}

func newOSMWay(way *osm.Way) *osmWay {
	prepared := &osmWay{
		ID:            way.ID,
		Nodes:         make([]osm.NodeID, 0, len(way.Nodes)),
		TagMap:        make(osm.Tags, len(way.Tags)),
		maxSpeed:      -1.0,
		lanes:         -1,
		lanesForward:  -1,
		lanesBackward: -1,
	}
	copy(prepared.TagMap, way.Tags)
	for _, node := range way.Nodes {
		prepared.Nodes = append(prepared.Nodes, node.ID)
	}
	return prepared
}

// processTags flattens tags which matter for routing
func (way *osmWay) processTags(logger *zap.Logger) {
	way.highway = way.TagMap.Find("highway")
	way.highwayType = getHighwayType(way.highway)
	way.junction = way.TagMap.Find("junction")
	way.area = way.TagMap.Find("area")
	way.motorVehicle = way.TagMap.Find("motor_vehicle")
	way.motorcar = way.TagMap.Find("motorcar")
	way.access = way.TagMap.Find("access")
	way.service = way.TagMap.Find("service")

	way.lanes = parseLanes(way.TagMap.Find("lanes"))
	way.lanesForward = parseLanes(way.TagMap.Find("lanes:forward"))
	way.lanesBackward = parseLanes(way.TagMap.Find("lanes:backward"))

	maxSpeed := way.TagMap.Find("maxspeed")
	if maxSpeed != "" {
		way.maxSpeed = parseMaxSpeed(maxSpeed)
		if way.maxSpeed < 0 {
			logger.Debug("Unhandled `maxspeed` tag value", zap.String("value", maxSpeed), zap.Int64("way_id", int64(way.ID)))
		}
	}

	onewayText := way.TagMap.Find("oneway")
	switch onewayText {
	case "yes", "1", "true":
		way.Oneway = true
	case "-1", "reverse":
		way.Oneway = true
		way.IsReversed = true
	case "no", "0", "false":
		way.Oneway = false
	case "":
		// Roundabouts are one way unless tagged otherwise
		_, way.Oneway = junctionTypes[way.junction]
	default:
		if _, ok := onewayReversible[onewayText]; !ok {
			logger.Debug("Unhandled `oneway` tag value", zap.String("value", onewayText), zap.Int64("way_id", int64(way.ID)))
		}
		way.Oneway = false
	}
}

// isAllowedForCars tells whether way can be driven by car
func (way *osmWay) isAllowedForCars() bool {
	if way.area != "" && way.area != "no" {
		return false
	}
	if _, ok := negligibleHighwayTags[way.highway]; ok {
		return false
	}
	if _, ok := carAccessInclude[ACCESS_MOTOR_VEHICLE][way.motorVehicle]; ok {
		return true
	}
	if _, ok := carAccessInclude[ACCESS_MOTORCAR][way.motorcar]; ok {
		return true
	}
	if _, ok := carAccessExclude[ACCESS_HIGHWAY][way.highway]; ok {
		return false
	}
	if _, ok := carAccessExclude[ACCESS_MOTOR_VEHICLE][way.motorVehicle]; ok {
		return false
	}
	if _, ok := carAccessExclude[ACCESS_MOTORCAR][way.motorcar]; ok {
		return false
	}
	if _, ok := carAccessExclude[ACCESS_OSM_ACCESS][way.access]; ok {
		return false
	}
	if _, ok := carAccessExclude[ACCESS_SERVICE][way.service]; ok {
		return false
	}
	return true
}

// speed returns km/h for both directions
func (way *osmWay) speed() float64 {
	if way.maxSpeed > 0 {
		return way.maxSpeed
	}
	return way.highwayType.defaultSpeed()
}

// forwardLanes returns lanes in the direction of the way geometry
func (way *osmWay) forwardLanes() int {
	if way.lanesForward > 0 {
		return way.lanesForward
	}
	return way.directionLanes()
}

// backwardLanes returns lanes against the direction of the way geometry
func (way *osmWay) backwardLanes() int {
	if way.lanesBackward > 0 {
		return way.lanesBackward
	}
	return way.directionLanes()
}

func (way *osmWay) directionLanes() int {
	if way.lanes <= 0 {
		return way.highwayType.defaultLanes()
	}
	if way.Oneway {
		return way.lanes
	}
	if way.lanes < 2 {
		return 1
	}
	return way.lanes / 2
}

// parseLanes returns -1 for missing or malformed values
func parseLanes(text string) int {
	if text == "" {
		return -1
	}
	lanesNum := lanesRegExp.FindString(text)
	if lanesNum == "" {
		return -1
	}
	lanes, err := strconv.Atoi(lanesNum)
	if err != nil || lanes <= 0 {
		return -1
	}
	return lanes
}

// parseMaxSpeed returns km/h or -1 when value is not numeric (e.g. "none", "signals", "RU:urban")
func parseMaxSpeed(text string) float64 {
	matches := maxSpeedRegExp.FindStringSubmatch(text)
	if len(matches) < 2 {
		return -1
	}
	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return -1
	}
	if len(matches) > 2 && matches[2] == "mph" {
		value *= mphToKmh
	}
	return value
}
