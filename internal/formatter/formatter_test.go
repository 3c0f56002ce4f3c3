package formatter

import (
	"math"
	"strings"
	"testing"

	"github.com/aydeggy-dot/proximity/internal/geo"
	"github.com/aydeggy-dot/proximity/internal/groups"
)

func rankedGroup(name, category, city string, members int, distance float64) groups.RankedGroup {
	return groups.RankedGroup{
		Group: groups.Group{
			ID:          name,
			Name:        name,
			Category:    category,
			City:        city,
			MemberCount: members,
		},
		Distance: distance,
	}
}

func TestFormatTable(t *testing.T) {
	ranked := []groups.RankedGroup{
		rankedGroup("Morning Run Club", "sports", "Berlin", 42, 250),
		rankedGroup("Book Circle", "social", "Potsdam", 12, 24500),
		rankedGroup("Remote Chess", "social", "", 7, math.Inf(1)),
	}

	table := FormatTable(ranked)

	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("Got %d lines, expected 5 (header, separator, 3 rows)", len(lines))
	}

	if !strings.Contains(lines[0], "Name") || !strings.Contains(lines[0], "Distance") {
		t.Errorf("Header missing expected columns: %q", lines[0])
	}
	if !strings.Contains(lines[1], "---") {
		t.Errorf("Expected separator row, got %q", lines[1])
	}
	if !strings.Contains(table, "250 m") {
		t.Error("Expected sub-kilometer distance in meters")
	}
	if !strings.Contains(table, "24.5 km") {
		t.Error("Expected kilometer distance with one decimal")
	}
	if !strings.Contains(table, "no location") {
		t.Error("Expected 'no location' for an unlocated group")
	}

	// All rows padded to the same width
	for i := 1; i < len(lines); i++ {
		if len(lines[i]) != len(lines[0]) {
			t.Errorf("Line %d width %d differs from header width %d", i, len(lines[i]), len(lines[0]))
		}
	}
}

func TestFormatTable_Empty(t *testing.T) {
	if got := FormatTable(nil); got != "" {
		t.Errorf("Expected empty string for no groups, got %q", got)
	}
}

func TestFormatNearestGroup(t *testing.T) {
	reference := geo.Coordinate{Latitude: 52.52, Longitude: 13.405}
	nearest := rankedGroup("Morning Run Club", "sports", "Berlin", 42, 1234)

	output := FormatNearestGroup(reference, nearest)

	for _, expected := range []string{
		"Your location:   (52.5200, 13.4050)",
		"Nearest group:   Morning Run Club",
		"Berlin (sports)",
		"1.2 km away, 42 members",
	} {
		if !strings.Contains(output, expected) {
			t.Errorf("Output missing %q:\n%s", expected, output)
		}
	}
}

func TestFormatNearestGroup_NoCity(t *testing.T) {
	reference := geo.Coordinate{Latitude: 0, Longitude: 0}
	nearest := rankedGroup("Drifters", "", "", 3, 500)

	output := FormatNearestGroup(reference, nearest)
	if strings.Contains(output, "()") {
		t.Errorf("Empty city should not render parentheses:\n%s", output)
	}
	if !strings.Contains(output, "500 m away") {
		t.Errorf("Expected distance line:\n%s", output)
	}
}
