package trafsim

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ImportOSM builds road graph from OSM data using default importer settings
func ImportOSM(reader io.ReadSeeker, format OSMFormat, cfg *OsmConfiguration) (*RoadGraph, error) {
	return NewImporter(cfg).Import(context.Background(), reader, format)
}

// ImportOSMFile builds road graph from *.osm / *.xml / *.osm.pbf file
func ImportOSMFile(fileName string, cfg *OsmConfiguration, options ...func(*Importer)) (*RoadGraph, error) {
	format, err := FormatFromFilename(fileName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()
	return NewImporter(cfg, options...).Import(context.Background(), f, format)
}

// Import builds road graph. Ways are split at every node shared with another way.
// Two way roads produce one edge per direction.
func (importer *Importer) Import(ctx context.Context, reader io.ReadSeeker, format OSMFormat) (*RoadGraph, error) {
	data, err := importer.readOSM(ctx, reader, format)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read OSM data")
	}
	logger := importer.logger

	st := time.Now()
	ways := make([]*osmWay, 0, len(data.ways))
	missingNodes := 0
	for _, way := range data.ways {
		complete := true
		for _, nodeID := range way.Nodes {
			if _, ok := data.nodes[nodeID]; !ok {
				complete = false
				break
			}
		}
		if !complete {
			// Usually ways cut by extract boundary
			missingNodes++
			continue
		}
		for i, nodeID := range way.Nodes {
			node := data.nodes[nodeID]
			if i == 0 || i == len(way.Nodes)-1 {
				node.useCount += 2
			} else {
				node.useCount++
			}
		}
		ways = append(ways, way)
	}
	if missingNodes > 0 {
		logger.Warn("Ways referencing missing nodes skipped", zap.Int("ways", missingNodes))
	}

	graph := NewRoadGraph(WithPrecision(importer.precision))
	if len(ways) == 0 {
		logger.Info("No ways imported")
		return graph, nil
	}
	proj := newProjector(data.nodes[ways[0].Nodes[0]].point)

	onewayEdges := 0
	for _, way := range ways {
		source := data.nodes[way.Nodes[0]]
		geometry := []Point{proj.toPlanar(source.point)}
		for i := 1; i < len(way.Nodes); i++ {
			node := data.nodes[way.Nodes[i]]
			geometry = append(geometry, proj.toPlanar(node.point))
			if node.useCount <= 1 {
				continue
			}
			oneway := importer.addWaySegment(graph, way, geometry, source, node)
			if oneway {
				onewayEdges++
			}
			source = node
			geometry = []Point{proj.toPlanar(node.point)}
		}
	}
	if importer.gridSize > 0 {
		graph.SnapToGrid(importer.gridSize)
	}
	logger.Info("Road graph prepared",
		zap.Int("edges", graph.EdgeCount()),
		zap.Int("oneway_edges", onewayEdges),
		zap.Int("nodes", graph.NodeCount()),
		zap.Duration("elapsed", time.Since(st)),
	)
	return graph, nil
}

// addWaySegment adds edges for a piece of way between two split nodes. Returns true for one way segments.
func (importer *Importer) addWaySegment(graph *RoadGraph, way *osmWay, geometry []Point, source, target *osmNode) bool {
	speed := way.speed()
	if !way.Oneway {
		forward := graph.NewEdge(geometry, speed, way.forwardLanes(), importer.delayAt(target))
		graph.AddEdge(forward)
		backward := graph.NewEdge(reverseLine(geometry), speed, way.backwardLanes(), importer.delayAt(source))
		graph.AddEdge(backward)
		return false
	}
	if way.IsReversed {
		edge := graph.NewEdge(reverseLine(geometry), speed, way.backwardLanes(), importer.delayAt(source))
		graph.AddEdge(edge)
		return true
	}
	edge := graph.NewEdge(geometry, speed, way.forwardLanes(), importer.delayAt(target))
	graph.AddEdge(edge)
	return true
}

func (importer *Importer) delayAt(node *osmNode) float64 {
	if node.isSignal {
		return importer.signalDelay
	}
	return 0
}
