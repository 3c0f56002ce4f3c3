// Package groups provides the group data model and distance-based ranking and filtering.
package groups

import (
	"fmt"
	"time"

	"github.com/aydeggy-dot/proximity/internal/geo"
)

// Category represents the kind of activity a group is organized around.
type Category int

// Group category constants
const (
	CategoryNone    Category = iota // No specific category
	Sports                          // Sports and fitness groups
	Social                          // Social and meetup groups
	Study                           // Study and learning groups
	Outdoors                        // Hiking, cycling and outdoor groups
)

func (c Category) String() string {
	switch c {
	case Sports:
		return "sports"
	case Social:
		return "social"
	case Study:
		return "study"
	case Outdoors:
		return "outdoors"
	case CategoryNone:
		return ""
	default:
		return ""
	}
}

// ParseCategory parses a category string into its type.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "sports":
		return Sports, nil
	case "social":
		return Social, nil
	case "study":
		return Study, nil
	case "outdoors":
		return Outdoors, nil
	case "":
		return CategoryNone, nil
	default:
		return CategoryNone, fmt.Errorf("unknown category: %s (must be 'sports', 'social', 'study', or 'outdoors')", s)
	}
}

// Group represents a social group with an optional location center.
// A nil LocationCenter means the group has no fixed meeting place; such
// groups are never within a finite radius and rank after all located groups.
type Group struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category,omitempty"`
	City           string          `json:"city,omitempty"`
	MemberCount    int             `json:"member_count"`
	CreatedAt      time.Time       `json:"created_at"`
	LocationCenter *geo.Coordinate `json:"location_center,omitempty"`
}

// RankedGroup is a Group annotated with its distance in meters from a
// reference point. Distance is +Inf when the group has no location center.
type RankedGroup struct {
	Group
	Distance float64 `json:"distance"`
}
