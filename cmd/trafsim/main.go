package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/santfeliu/trafsim"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using default environment variables")
	}

	var (
		tagStr        = flag.String("tags", envOr("TRAFSIM_TAGS", trafsim.DEFAULT_HIGHWAY_TAGS), "Set of needed tags (separated by commas)")
		osmFileName   = flag.String("file", envOr("TRAFSIM_FILE", "my_graph.osm.pbf"), "Filename of *.osm.pbf / *.osm file")
		demandFile    = flag.String("demand", envOr("TRAFSIM_DEMAND", ""), "Filename of demand CSV (locations, groups, vehicles). Empty means no routing pass")
		gridSize      = flag.Float64("grid", envFloatOr("TRAFSIM_GRID", 0), "Snap edge endpoints to grid of given size (meters). Zero disables snapping")
		signalDelay   = flag.Float64("signal_delay", envFloatOr("TRAFSIM_SIGNAL_DELAY", 0), "Delay (seconds) of edges ending at traffic signals")
		out           = flag.String("out", envOr("TRAFSIM_OUT", "my_graph.csv"), "Filename of 'Comma-Separated Values' (CSV) formatted file. E.g.: if file name is 'map.csv' then 'map_edges.csv', 'map_groups.csv' are produced (and 'map_vertices.csv', 'map_shortcuts.csv' when contracting)")
		geomFormat    = flag.String("geomf", envOr("TRAFSIM_GEOMF", "wkt"), "Format of output geometry. Expected values: wkt / geojson")
		doContraction = flag.Bool("contract", envBoolOr("TRAFSIM_CONTRACT", false), "Prepare contraction hierarchies?")
		duration      = flag.Float64("duration", envFloatOr("TRAFSIM_DURATION", 1), "Simulated period (hours) used for saturation")
		serveAddr     = flag.String("serve", envOr("TRAFSIM_SERVE", ""), "Address of HTTP host (e.g. ':8080'). Empty means no server")
		verbose       = flag.Bool("verbose", envBoolOr("TRAFSIM_VERBOSE", false), "Development logging")
	)
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := trafsim.DefaultOsmConfiguration()
	cfg.Tags = trafsim.ParseTags(*tagStr)

	st := time.Now()
	graph, err := trafsim.ImportOSMFile(*osmFileName, cfg,
		trafsim.WithImportLogger(logger),
		trafsim.WithGridSize(*gridSize),
		trafsim.WithSignalDelay(*signalDelay),
	)
	if err != nil {
		logger.Error("Can't import OSM file", zap.String("file", *osmFileName), zap.Error(err))
		return
	}
	logger.Info("OSM file imported", zap.String("file", *osmFileName), zap.Duration("elapsed", time.Since(st)))

	simulation := trafsim.NewSimulation(
		trafsim.WithTitle(filepath.Base(*osmFileName)),
		trafsim.WithRoadGraph(graph),
		trafsim.WithDuration(*duration),
	)

	if *demandFile != "" {
		err = trafsim.ReadDemandFile(*demandFile, simulation)
		if err != nil {
			logger.Error("Can't read demand", zap.String("file", *demandFile), zap.Error(err))
			return
		}
		router := trafsim.NewRouter(simulation, trafsim.WithLogger(logger))
		err = router.Run(ctx)
		if err != nil {
			logger.Error("Routing pass failed", zap.Error(err))
			return
		}
	}

	geomf := trafsim.ParseGeomFormat(*geomFormat)
	err = simulation.ExportToCSV(*out, geomf)
	if err != nil {
		logger.Error("Can't export CSV", zap.Error(err))
		return
	}

	if *doContraction {
		err = exportContraction(graph, *out, geomf, logger)
		if err != nil {
			logger.Error("Can't export contraction hierarchies", zap.Error(err))
			return
		}
	}

	if *serveAddr != "" {
		srv := newServer(simulation, logger)
		err = srv.run(ctx, *serveAddr)
		if err != nil {
			logger.Error("HTTP host stopped", zap.Error(err))
		}
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, errors.Wrap(err, "Can't prepare logger")
	}
	return logger, nil
}

func envOr(key, def string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	value, err := strconv.ParseFloat(envOr(key, ""), 64)
	if err != nil {
		return def
	}
	return value
}

func envBoolOr(key string, def bool) bool {
	value, err := strconv.ParseBool(envOr(key, ""))
	if err != nil {
		return def
	}
	return value
}
