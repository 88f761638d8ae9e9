package trafsim

import (
	"context"
	"io"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// osmNode is a node referenced by at least one accepted way
type osmNode struct {
	ID       osm.NodeID
	point    orb.Point
	useCount int
	isSignal bool
}

type osmDataRaw struct {
	ways  []*osmWay
	nodes map[osm.NodeID]*osmNode
}

func (importer *Importer) newScanner(ctx context.Context, reader io.Reader, format OSMFormat) (OSMScanner, error) {
	switch format {
	case OSM_FORMAT_XML:
		return osmxml.New(ctx, reader), nil
	case OSM_FORMAT_PBF:
		return osmpbf.New(ctx, reader, importer.procs), nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "Format '%d' is not handled", format)
	}
}

// readOSM scans ways first and then only the nodes those ways reference
func (importer *Importer) readOSM(ctx context.Context, reader io.ReadSeeker, format OSMFormat) (*osmDataRaw, error) {
	logger := importer.logger

	/* Process ways */
	st := time.Now()
	ways := []*osmWay{}
	nodesSeen := make(map[osm.NodeID]struct{})
	skippedWays := 0
	{
		scannerWays, err := importer.newScanner(ctx, reader, format)
		if err != nil {
			return nil, err
		}
		defer scannerWays.Close()

		for scannerWays.Scan() {
			obj := scannerWays.Object()
			if obj.ObjectID().Type() != osm.TypeWay {
				continue
			}
			way := obj.(*osm.Way)
			tag := way.Tags.Find(importer.cfg.EntityName)
			if tag == "" || !importer.cfg.CheckTag(tag) {
				continue
			}
			if len(way.Nodes) < 2 {
				skippedWays++
				continue
			}
			preparedWay := newOSMWay(way)
			preparedWay.processTags(logger)
			if importer.cfg.CarsOnly && !preparedWay.isAllowedForCars() {
				skippedWays++
				continue
			}
			for _, nodeID := range preparedWay.Nodes {
				nodesSeen[nodeID] = struct{}{}
			}
			ways = append(ways, preparedWay)
		}
		if err := scannerWays.Err(); err != nil {
			return nil, errors.Wrap(err, "Scanner error on Ways")
		}
	}
	logger.Info("Ways scanned",
		zap.Int("ways", len(ways)),
		zap.Int("skipped", skippedWays),
		zap.Duration("elapsed", time.Since(st)),
	)

	// Seek file to start
	_, err := reader.Seek(0, io.SeekStart)
	if err != nil {
		return nil, errors.Wrap(err, "Can't repeat seeking after ways scanning")
	}

	/* Process nodes */
	st = time.Now()
	nodes := make(map[osm.NodeID]*osmNode, len(nodesSeen))
	{
		scannerNodes, err := importer.newScanner(ctx, reader, format)
		if err != nil {
			return nil, err
		}
		defer scannerNodes.Close()

		for scannerNodes.Scan() {
			obj := scannerNodes.Object()
			if obj.ObjectID().Type() != osm.TypeNode {
				continue
			}
			node := obj.(*osm.Node)
			if _, ok := nodesSeen[node.ID]; !ok {
				continue
			}
			delete(nodesSeen, node.ID)
			nodes[node.ID] = &osmNode{
				ID:       node.ID,
				point:    orb.Point{node.Lon, node.Lat},
				isSignal: node.Tags.Find("highway") == "traffic_signals",
			}
		}
		if err := scannerNodes.Err(); err != nil {
			return nil, errors.Wrap(err, "Scanner error on Nodes")
		}
	}
	logger.Info("Nodes scanned",
		zap.Int("nodes", len(nodes)),
		zap.Int("missing", len(nodesSeen)),
		zap.Duration("elapsed", time.Since(st)),
	)

	return &osmDataRaw{
		ways:  ways,
		nodes: nodes,
	}, nil
}
