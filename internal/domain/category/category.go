// Package category defines the closed set of wedding service tags used to route retrieval.
package category

import (
	"fmt"
	"strings"
)

// Category is a service type tag.
type Category string

// Category tags. Venue is the only tag served by establishments; every other tag is served by partners.
const (
	Venue          Category = "LIEU"
	Caterer        Category = "TRAITEUR"
	Photographer   Category = "PHOTOGRAPHE"
	Videographer   Category = "VIDEASTE"
	Music          Category = "MUSIQUE"
	Vehicle        Category = "VOITURE"
	Decoration     Category = "DECORATION"
	Florist        Category = "FLEURISTE"
	WeddingPlanner Category = "WEDDING_PLANNER"
	Entertainment  Category = "ANIMATION"
	Beauty         Category = "BEAUTE"
	Attire         Category = "TENUE"
	Officiant      Category = "OFFICIANT"
	Stationery     Category = "FAIRE_PART"
)

// Default is applied when interpretation yields no category.
const Default = Venue

var all = []Category{
	Venue, Caterer, Photographer, Videographer, Music, Vehicle, Decoration,
	Florist, WeddingPlanner, Entertainment, Beauty, Attire, Officiant, Stationery,
}

// All returns every known category in declaration order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

// IsValid checks if the category is one of the known tags.
func (c Category) IsValid() bool {
	for _, k := range all {
		if c == k {
			return true
		}
	}
	return false
}

// IsVenue reports whether the category is served by establishments.
func (c Category) IsVenue() bool { return c == Venue }

// Parse converts a tag in any case into a Category.
func Parse(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Strings converts categories to their raw tags.
func Strings(cs []Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}
