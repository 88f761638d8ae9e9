package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/santfeliu/trafsim"
	"go.uber.org/zap"
)

// exportContraction prepares contraction hierarchies over edge times and writes vertices and shortcuts
func exportContraction(graph *trafsim.RoadGraph, out string, geomFormat trafsim.GeomFormat, logger *zap.Logger) error {
	fnamePart := strings.Split(out, ".csv") // to guarantee proper filename and its extension
	fnameVertices := fnamePart[0] + "_vertices.csv"
	fnameShortcuts := fnamePart[0] + "_shortcuts.csv"

	chGraph, err := trafsim.ContractionGraph(graph, trafsim.RouteMeter{})
	if err != nil {
		return errors.Wrap(err, "Can't prepare graph")
	}

	logger.Info("Starting contraction process", zap.Int("vertices", len(chGraph.Vertices)))
	st := time.Now()
	chGraph.PrepareContractionHierarchies()
	logger.Info("Done contraction process", zap.Duration("elapsed", time.Since(st)))

	/* Vertices file */
	fileVertices, err := os.Create(fnameVertices)
	if err != nil {
		return errors.Wrap(err, "Can't create vertices file")
	}
	defer fileVertices.Close()
	writerVertices := csv.NewWriter(fileVertices)
	defer writerVertices.Flush()
	writerVertices.Comma = ';'
	// 		vertex_id - int64, ID of junction
	// 		order_pos - int, Position of vertex in hierarchies (evaluted by library)
	// 		importance - int, Importance of vertex in graph (evaluted by library)
	//      geom - geometry (WKT or GeoJSON representation)
	err = writerVertices.Write([]string{"vertex_id", "order_pos", "importance", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	vertices := chGraph.Vertices
	for i := 0; i < len(vertices); i++ {
		currentVertexExternal := vertices[i].Label
		geomStr := ""
		if node, ok := graph.Node(trafsim.NodeID(currentVertexExternal)); ok {
			if geomFormat == trafsim.GEOM_FORMAT_GEOJSON {
				geomStr = trafsim.PrepareGeoJSONPoint(node.Position())
			} else {
				geomStr = trafsim.PrepareWKTPoint(node.Position())
			}
		}
		err = writerVertices.Write([]string{
			fmt.Sprintf("%d", currentVertexExternal),
			fmt.Sprintf("%d", vertices[i].OrderPos()),
			fmt.Sprintf("%d", vertices[i].Importance()),
			geomStr,
		})
		if err != nil {
			return errors.Wrap(err, "Can't write vertex")
		}
	}

	/* Write shortcuts */
	// 	from_vertex_id - int64, ID of source vertex
	// 	to_vertex_id - int64, ID of arget vertex
	// 	weight - float64, Weight of an edge (hours)
	// 	via_vertex_id - int64, ID of vertex through which the shortcut exists
	err = chGraph.ExportShortcutsToFile(fnameShortcuts)
	if err != nil {
		return errors.Wrap(err, "Can't export shortcuts")
	}
	return nil
}
