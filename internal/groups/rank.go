package groups

import (
	"cmp"
	"log"
	"math"
	"slices"

	"github.com/aydeggy-dot/proximity/internal/geo"
	"github.com/aydeggy-dot/proximity/internal/logging"
)

// RankByDistance annotates each group with its distance from the reference
// point and returns a new slice sorted ascending by distance. Groups without
// a location center get +Inf and sort after all located groups. The sort is
// stable: groups at equal distance keep their relative input order. Input
// groups are never mutated.
func RankByDistance(grps []Group, reference geo.Coordinate) []RankedGroup {
	ranked := make([]RankedGroup, len(grps))
	for i, g := range grps {
		d := math.Inf(1)
		if g.LocationCenter != nil {
			d = geo.Distance(reference, *g.LocationCenter)
		}
		ranked[i] = RankedGroup{Group: g, Distance: d}
	}

	slices.SortStableFunc(ranked, func(a, b RankedGroup) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	return ranked
}

// FilterByRadius returns the groups whose location center lies within
// radiusMeters of the reference point (inclusive boundary). Groups without a
// location center are always excluded. Input order is preserved; this
// function does not sort.
func FilterByRadius(grps []Group, reference geo.Coordinate, radiusMeters float64) []Group {
	return FilterByRadiusWithLogLevel(grps, reference, radiusMeters, logging.LogLevelError)
}

// FilterByRadiusWithLogLevel returns groups within the radius with logging support
func FilterByRadiusWithLogLevel(
	grps []Group,
	reference geo.Coordinate,
	radiusMeters float64,
	logLevel logging.LogLevel,
) []Group {
	if logLevel <= logging.LogLevelDebug {
		log.Printf(
			"Filtering %d groups within %.0f m of reference (%.4f, %.4f)",
			len(grps),
			radiusMeters,
			reference.Latitude,
			reference.Longitude,
		)
	}

	var filtered []Group

	for _, g := range grps {
		if g.LocationCenter == nil {
			continue
		}
		if geo.Distance(reference, *g.LocationCenter) <= radiusMeters {
			filtered = append(filtered, g)
		}
	}

	if logLevel <= logging.LogLevelInfo {
		log.Printf(
			"Filtered to %d groups within %.0f m (filtered out %d)",
			len(filtered),
			radiusMeters,
			len(grps)-len(filtered),
		)
	}

	return filtered
}
