package trafsim

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

type GeomFormat uint16

const (
	GEOM_FORMAT_WKT = GeomFormat(iota + 1)
	GEOM_FORMAT_GEOJSON
)

func (iotaIdx GeomFormat) String() string {
	return [...]string{"wkt", "geojson"}[iotaIdx-1]
}

// ParseGeomFormat accepts "wkt" and "geojson" (case insensitive). Anything else falls back to WKT.
func ParseGeomFormat(str string) GeomFormat {
	if strings.ToLower(str) == "geojson" {
		return GEOM_FORMAT_GEOJSON
	}
	return GEOM_FORMAT_WKT
}

func (iotaIdx GeomFormat) line(pts []Point) string {
	if iotaIdx == GEOM_FORMAT_GEOJSON {
		return PrepareGeoJSONLinestring(pts)
	}
	return PrepareWKTLinestring(pts)
}

func (iotaIdx GeomFormat) point(pt Point) string {
	if iotaIdx == GEOM_FORMAT_GEOJSON {
		return PrepareGeoJSONPoint(pt)
	}
	return PrepareWKTPoint(pt)
}

// ExportToCSV writes results of the last routing pass.
// E.g.: if file name is 'result.csv' then 'result_edges.csv' and 'result_groups.csv' are produced.
func (simulation *Simulation) ExportToCSV(fname string, geomFormat GeomFormat) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameEdges := fnameParts[0] + "_edges.csv"
	fnameGroups := fnameParts[0] + "_groups.csv"

	err := exportToFile(fnameEdges, func(w io.Writer) error {
		return simulation.WriteEdgesCSV(w, geomFormat)
	})
	if err != nil {
		return errors.Wrap(err, "Can't export edges")
	}

	err = exportToFile(fnameGroups, func(w io.Writer) error {
		return simulation.WriteGroupsCSV(w, geomFormat)
	})
	if err != nil {
		return errors.Wrap(err, "Can't export vehicle groups")
	}
	return nil
}

func exportToFile(fname string, write func(w io.Writer) error) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()
	return write(file)
}

// WriteEdgesCSV writes edges with their attributes and load
func (simulation *Simulation) WriteEdgesCSV(w io.Writer, geomFormat GeomFormat) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	err := writer.Write([]string{"id", "source_node", "target_node", "speed", "lanes", "delay", "length_meters", "capacity", "vehicles", "saturation", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	meter := RouteMeter{}
	for _, edge := range simulation.RoadGraph.Edges() {
		err = writer.Write([]string{
			fmt.Sprintf("%d", edge.ID),
			fmt.Sprintf("%d", edge.sourceNodeID),
			fmt.Sprintf("%d", edge.targetNodeID),
			fmt.Sprintf("%f", edge.Speed),
			fmt.Sprintf("%d", edge.Lanes),
			fmt.Sprintf("%f", edge.Delay),
			fmt.Sprintf("%f", edge.Length()),
			fmt.Sprintf("%f", meter.Capacity(edge)),
			fmt.Sprintf("%d", edge.indicators.VehicleCount),
			fmt.Sprintf("%f", meter.Saturation(edge, simulation.Duration)),
			geomFormat.line(edge.geom),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write edge")
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteGroupsCSV writes vehicle groups with their indicators
func (simulation *Simulation) WriteGroupsCSV(w io.Writer, geomFormat GeomFormat) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	err := writer.Write([]string{"index", "group", "count", "journeys", "routed", "unrouted", "distance", "time", "avg_distance", "avg_time", "movements", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for i, vehicleGroup := range simulation.Vehicles.Groups() {
		ind := &vehicleGroup.indicators
		err = writer.Write([]string{
			fmt.Sprintf("%d", i),
			vehicleGroup.Group,
			fmt.Sprintf("%d", vehicleGroup.Count),
			fmt.Sprintf("%d", ind.JourneyCount),
			fmt.Sprintf("%d", ind.RoutedCount),
			fmt.Sprintf("%d", ind.UnroutedCount),
			fmt.Sprintf("%f", ind.Distance),
			fmt.Sprintf("%f", ind.Time),
			fmt.Sprintf("%f", ind.JourneyAvgDistance()),
			fmt.Sprintf("%f", ind.JourneyAvgTime()),
			vehicleGroup.Movements.String(),
			geomFormat.point(vehicleGroup.Point),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write vehicle group")
		}
	}
	writer.Flush()
	return writer.Error()
}
