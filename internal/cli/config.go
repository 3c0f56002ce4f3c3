// Package cli provides command-line interface configuration and flag parsing functionality.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aydeggy-dot/proximity/internal/geo"
	"github.com/aydeggy-dot/proximity/internal/logging"
)

// Config holds all command-line configuration options for the application.
type Config struct {
	GroupsFile  string
	Latitude    float64
	Longitude   float64
	HasLocation bool
	Radius      float64
	PageSize    int
	Pages       int
	NearestMode bool
	ShowHelp    bool
	ShowVersion bool
	LogLevel    logging.LogLevel
}

// ParseFlags parses command-line arguments manually to support GNU-style long flags
func ParseFlags(args []string) (*Config, error) {
	cfg := &Config{
		Radius:   -1,
		PageSize: 20,
		Pages:    1,
		LogLevel: logging.LogLevelError,
	}

	var latSet, lonSet bool

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "-h" || arg == "--help":
			cfg.ShowHelp = true
			return cfg, nil

		case arg == "-v" || arg == "--version":
			cfg.ShowVersion = true
			return cfg, nil

		case arg == "-f" || arg == "--groups-file":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			i++
			cfg.GroupsFile = args[i]

		case arg == "--lat":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			i++
			lat, err := strconv.ParseFloat(args[i], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid lat value: %s", args[i])
			}
			cfg.Latitude = lat
			latSet = true

		case arg == "--lon":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			i++
			lon, err := strconv.ParseFloat(args[i], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid lon value: %s", args[i])
			}
			cfg.Longitude = lon
			lonSet = true

		case arg == "-r" || arg == "--radius":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			i++
			radius, err := strconv.ParseFloat(args[i], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid radius value: %s", args[i])
			}
			if radius < 0 {
				return nil, fmt.Errorf("radius must not be negative")
			}
			cfg.Radius = radius

		case arg == "-p" || arg == "--page-size":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			i++
			pageSize, err := strconv.Atoi(args[i])
			if err != nil {
				return nil, fmt.Errorf("invalid page-size value: %s", args[i])
			}
			if pageSize < 1 || pageSize > 100 {
				return nil, fmt.Errorf("page-size must be between 1 and 100")
			}
			cfg.PageSize = pageSize

		case arg == "--pages":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			i++
			pages, err := strconv.Atoi(args[i])
			if err != nil {
				return nil, fmt.Errorf("invalid pages value: %s", args[i])
			}
			if pages < 0 {
				return nil, fmt.Errorf("pages must not be negative")
			}
			cfg.Pages = pages

		case arg == "-n" || arg == "--nearest":
			cfg.NearestMode = true

		case arg == "-l" || arg == "--log-level":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			i++
			level, err := logging.ParseLogLevel(args[i])
			if err != nil {
				return nil, err
			}
			cfg.LogLevel = level

		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unknown flag: %s", arg)

		default:
			return nil, fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	if cfg.GroupsFile == "" {
		return nil, fmt.Errorf("--groups-file is required")
	}

	if latSet != lonSet {
		return nil, fmt.Errorf("--lat and --lon must be supplied together")
	}
	if latSet {
		coord := geo.Coordinate{Latitude: cfg.Latitude, Longitude: cfg.Longitude}
		if err := coord.Validate(); err != nil {
			return nil, err
		}
		cfg.HasLocation = true
	}

	return cfg, nil
}

// PrintUsage outputs the usage information and command-line options to the writer.
func PrintUsage(w io.Writer, version string) {
	_, _ = fmt.Fprintf(w, `proximity %s

Find nearby groups, ranked by distance from your location.

USAGE:
    proximity --groups-file PATH [OPTIONS]

OPTIONS:
    -f, --groups-file PATH    Path to the groups.json seed file (required)
        --lat DEGREES         Reference latitude (requires --lon; default: resolved from your IP)
        --lon DEGREES         Reference longitude (requires --lat)
    -r, --radius METERS       Only show groups within this distance
    -p, --page-size COUNT     Groups fetched per page (default: 20, range: 1-100)
        --pages COUNT         Number of pages to load (default: 1, 0 loads all)
    -n, --nearest             Show only the nearest group
    -l, --log-level LEVEL     Set log level (debug, info, warning, error; default: error)
    -h, --help                Show this help message
    -v, --version             Show version information

EXAMPLES:
    proximity --groups-file groups.json
    proximity -f groups.json --lat 52.52 --lon 13.405 -r 5000
    proximity -f groups.json --pages 0 -p 50
`, version)
}
