package groups

import (
	"math"
	"testing"

	"github.com/aydeggy-dot/proximity/internal/geo"
)

// reference is on the equator; offsets in longitude give predictable distances
// (one degree is roughly 111.2 km).
var reference = geo.Coordinate{Latitude: 0, Longitude: 0}

// groupAt builds a group whose center is offset east of the reference by
// approximately the given number of meters.
func groupAt(name string, meters float64) Group {
	lon := meters / 111195.0
	return Group{
		ID:             name,
		Name:           name,
		LocationCenter: &geo.Coordinate{Latitude: 0, Longitude: lon},
	}
}

func unlocated(name string) Group {
	return Group{ID: name, Name: name}
}

func TestRankByDistance_Order(t *testing.T) {
	input := []Group{
		groupAt("far", 500),
		groupAt("near", 100),
		unlocated("nowhere"),
		groupAt("mid", 300),
	}

	ranked := RankByDistance(input, reference)

	expectedOrder := []string{"near", "mid", "far", "nowhere"}
	if len(ranked) != len(expectedOrder) {
		t.Fatalf("Got %d ranked groups, expected %d", len(ranked), len(expectedOrder))
	}
	for i, name := range expectedOrder {
		if ranked[i].Name != name {
			t.Errorf("Position %d: got %q, expected %q", i, ranked[i].Name, name)
		}
	}

	if !math.IsInf(ranked[3].Distance, 1) {
		t.Errorf("Unlocated group distance = %f, expected +Inf", ranked[3].Distance)
	}
	for i := 0; i < 3; i++ {
		if ranked[i].Distance < 0 || math.IsInf(ranked[i].Distance, 0) {
			t.Errorf("Located group %q has distance %f", ranked[i].Name, ranked[i].Distance)
		}
	}
}

func TestRankByDistance_StableForTies(t *testing.T) {
	input := []Group{
		groupAt("a", 200),
		groupAt("b", 200),
		groupAt("c", 200),
		unlocated("x"),
		unlocated("y"),
	}

	ranked := RankByDistance(input, reference)

	expectedOrder := []string{"a", "b", "c", "x", "y"}
	for i, name := range expectedOrder {
		if ranked[i].Name != name {
			t.Errorf("Position %d: got %q, expected %q (ties must keep input order)", i, ranked[i].Name, name)
		}
	}
}

func TestRankByDistance_DoesNotMutateInput(t *testing.T) {
	center := geo.Coordinate{Latitude: 10, Longitude: 20}
	input := []Group{{ID: "g1", Name: "g1", LocationCenter: &center}}

	_ = RankByDistance(input, reference)

	if input[0].LocationCenter == nil || *input[0].LocationCenter != center {
		t.Error("RankByDistance mutated input group location")
	}
}

func TestRankByDistance_Empty(t *testing.T) {
	ranked := RankByDistance(nil, reference)
	if len(ranked) != 0 {
		t.Errorf("Expected empty result, got %d entries", len(ranked))
	}
}

func TestFilterByRadius_Boundary(t *testing.T) {
	// Fix a radius from the actual computed distance so the boundary test is
	// exact rather than dependent on the meters approximation in groupAt.
	onEdge := groupAt("edge", 500)
	radius := geo.Distance(reference, *onEdge.LocationCenter)

	tests := []struct {
		name     string
		group    Group
		included bool
	}{
		{name: "Exactly at radius", group: onEdge, included: true},
		{name: "Inside radius", group: groupAt("in", 100), included: true},
		{name: "Beyond radius", group: groupAt("out", 600), included: false},
		{name: "No location", group: unlocated("none"), included: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByRadius([]Group{tt.group}, reference, radius)
			if tt.included && len(got) != 1 {
				t.Errorf("Expected group %q to be included", tt.group.Name)
			}
			if !tt.included && len(got) != 0 {
				t.Errorf("Expected group %q to be excluded", tt.group.Name)
			}
		})
	}
}

func TestFilterByRadius_PreservesInputOrder(t *testing.T) {
	input := []Group{
		groupAt("far", 900),
		unlocated("nowhere"),
		groupAt("near", 100),
		groupAt("mid", 500),
	}

	got := FilterByRadius(input, reference, 1000)

	expectedOrder := []string{"far", "near", "mid"}
	if len(got) != len(expectedOrder) {
		t.Fatalf("Got %d groups, expected %d", len(got), len(expectedOrder))
	}
	for i, name := range expectedOrder {
		if got[i].Name != name {
			t.Errorf("Position %d: got %q, expected %q (filter must not sort)", i, got[i].Name, name)
		}
	}
}

func TestFilterByRadius_ZeroRadius(t *testing.T) {
	at := Group{ID: "here", Name: "here", LocationCenter: &reference}
	got := FilterByRadius([]Group{at, groupAt("away", 10)}, reference, 0)

	if len(got) != 1 || got[0].Name != "here" {
		t.Errorf("Zero radius should include only the group at the reference point, got %d groups", len(got))
	}
}
