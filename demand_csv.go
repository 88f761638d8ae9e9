package trafsim

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadDemandFile reads demand records from file into simulation
func ReadDemandFile(fileName string, simulation *Simulation) error {
	f, err := os.Open(fileName)
	if err != nil {
		return errors.Wrap(err, "File open")
	}
	defer f.Close()
	return ReadDemandCSV(f, simulation)
}

// ReadDemandCSV reads ';' separated demand records into simulation.
// Supported records:
//
//	location;name;label;x;y;origin
//	group;name;location;weight
//	vehicles;x;y;count;group
//
// Lines starting with '#' are comments. Journeys of the same group accumulate in file order.
func ReadDemandCSV(r io.Reader, simulation *Simulation) error {
	if simulation == nil {
		return ErrNilSimulation
	}
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return errors.Wrapf(err, "Can't read record %d", line)
		}
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(record[0])) {
		case "location":
			err = readLocationRecord(record, simulation)
		case "group":
			err = readGroupRecord(record, simulation)
		case "vehicles":
			err = readVehiclesRecord(record, simulation)
		default:
			err = errors.Errorf("unknown record type '%s'", record[0])
		}
		if err != nil {
			return errors.Wrapf(err, "Can't parse record %d", line)
		}
	}
	return nil
}

func readLocationRecord(record []string, simulation *Simulation) error {
	if len(record) != 6 {
		return errors.Errorf("location record needs 6 fields, got %d", len(record))
	}
	x, err := parseFloatField(record[3], "x")
	if err != nil {
		return err
	}
	y, err := parseFloatField(record[4], "y")
	if err != nil {
		return err
	}
	origin, err := strconv.ParseBool(strings.TrimSpace(record[5]))
	if err != nil {
		return errors.Wrap(err, "Can't parse origin flag")
	}
	simulation.Locations.AddLocation(&Location{
		Name:   strings.TrimSpace(record[1]),
		Label:  strings.TrimSpace(record[2]),
		Point:  Point{X: x, Y: y},
		Origin: origin,
	})
	return nil
}

func readGroupRecord(record []string, simulation *Simulation) error {
	if len(record) != 4 {
		return errors.Errorf("group record needs 4 fields, got %d", len(record))
	}
	weight, err := parseFloatField(record[3], "weight")
	if err != nil {
		return err
	}
	name := strings.TrimSpace(record[1])
	group, ok := simulation.Group(name)
	if !ok {
		group = NewGroup(name)
		simulation.AddGroup(group)
	}
	group.AddJourney(strings.TrimSpace(record[2]), weight)
	return nil
}

func readVehiclesRecord(record []string, simulation *Simulation) error {
	if len(record) != 5 {
		return errors.Errorf("vehicles record needs 5 fields, got %d", len(record))
	}
	x, err := parseFloatField(record[1], "x")
	if err != nil {
		return err
	}
	y, err := parseFloatField(record[2], "y")
	if err != nil {
		return err
	}
	count, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil {
		return errors.Wrap(err, "Can't parse vehicle count")
	}
	simulation.Vehicles.AddGroup(&VehicleGroup{
		Point: Point{X: x, Y: y},
		Count: count,
		Group: strings.TrimSpace(record[4]),
	})
	return nil
}

func parseFloatField(text, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "Can't parse %s", field)
	}
	return value, nil
}
