package trafsim

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrUnknownFormat is returned for OSM files which are neither XML nor PBF
	ErrUnknownFormat = errors.New("unknown OSM file format")
)

type OSMFormat uint16

const (
	OSM_FORMAT_XML = OSMFormat(iota + 1)
	OSM_FORMAT_PBF
)

func (iotaIdx OSMFormat) String() string {
	return [...]string{"xml", "pbf"}[iotaIdx-1]
}

// FormatFromFilename guesses OSM format by file extension
func FormatFromFilename(filename string) (OSMFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".osm", ".xml":
		return OSM_FORMAT_XML, nil
	case ".pbf":
		return OSM_FORMAT_PBF, nil
	default:
		return 0, errors.Wrapf(ErrUnknownFormat, "File extension '%s' for file '%s' is not handled yet", ext, filename)
	}
}

// Importer builds road graph from OSM data
type Importer struct {
	cfg         *OsmConfiguration
	logger      *zap.Logger
	precision   float64
	gridSize    float64
	signalDelay float64
	procs       int
}

func (importer *Importer) String() string {
	return fmt.Sprintf(`
OSM importer parameters:
	entity: '%s'
	tags: '%s'
	cars_only: %t
	precision: %f
	grid_size: %f
	signal_delay: %f
	procs: %d
	`,
		importer.cfg.EntityName,
		strings.Join(importer.cfg.Tags, ","),
		importer.cfg.CarsOnly,
		importer.precision,
		importer.gridSize,
		importer.signalDelay,
		importer.procs,
	)
}

// NewImporter returns importer for given configuration. Nil configuration means DefaultOsmConfiguration.
func NewImporter(cfg *OsmConfiguration, options ...func(*Importer)) *Importer {
	if cfg == nil {
		cfg = DefaultOsmConfiguration()
	}
	if cfg.EntityName == "" {
		cfg.EntityName = "highway"
	}
	importer := &Importer{
		cfg:       cfg,
		logger:    zap.NewNop(),
		precision: DEFAULT_PRECISION,
		procs:     4,
	}
	for _, option := range options {
		option(importer)
	}
	return importer
}

func WithImportLogger(logger *zap.Logger) func(*Importer) {
	return func(importer *Importer) {
		if logger != nil {
			importer.logger = logger
		}
	}
}

// WithImportPrecision sets node rounding step of the produced graph
func WithImportPrecision(precision float64) func(*Importer) {
	return func(importer *Importer) {
		importer.precision = precision
	}
}

// WithGridSize snaps produced graph to the grid. Zero disables snapping.
func WithGridSize(gridSize float64) func(*Importer) {
	return func(importer *Importer) {
		importer.gridSize = gridSize
	}
}

// WithSignalDelay sets delay (seconds) of edges ending at traffic signals
func WithSignalDelay(seconds float64) func(*Importer) {
	return func(importer *Importer) {
		importer.signalDelay = seconds
	}
}

// WithScannerProcs sets number of goroutines decoding PBF blocks
func WithScannerProcs(procs int) func(*Importer) {
	return func(importer *Importer) {
		if procs > 0 {
			importer.procs = procs
		}
	}
}
