package interpret

import (
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/category"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
)

func only(cs ...category.Category) criteria.SearchCriteria {
	return criteria.SearchCriteria{ServiceType: cs}.WithDefaults()
}

func venueWith(features ...string) criteria.SearchCriteria {
	return criteria.SearchCriteria{
		ServiceType: []category.Category{category.Venue},
		Features:    features,
	}.WithDefaults()
}

// staticTable maps frequent normalized queries to precomputed criteria.
var staticTable = map[string]criteria.SearchCriteria{
	"photographe mariage":  only(category.Photographer),
	"photographe":          only(category.Photographer),
	"vidéaste mariage":     only(category.Videographer),
	"videaste mariage":     only(category.Videographer),
	"traiteur mariage":     only(category.Caterer),
	"traiteur":             only(category.Caterer),
	"dj mariage":           only(category.Music),
	"musicien mariage":     only(category.Music),
	"fleuriste mariage":    only(category.Florist),
	"décoration mariage":   only(category.Decoration),
	"voiture mariage":      only(category.Vehicle),
	"wedding planner":      only(category.WeddingPlanner),
	"robe de mariée":       only(category.Attire),
	"faire-part mariage":   only(category.Stationery),
	"lieu de réception":    only(category.Venue),
	"lieu mariage":         only(category.Venue),
	"salle de réception":   venueWith("salle"),
	"salle mariage":        venueWith("salle"),
	"château mariage":      venueWith("château"),
	"chateau mariage":      venueWith("château"),
	"domaine mariage":      venueWith("domaine"),
	"domaine viticole":     venueWith("domaine"),
	"manoir mariage":       venueWith("manoir"),
	"grange mariage":       venueWith("grange"),
	"péniche mariage":      venueWith("péniche"),
	"mariage champêtre":    criteria.SearchCriteria{Style: []string{"champêtre"}}.WithDefaults(),
}

// lookupStatic returns a copy of the table entry for q.
func lookupStatic(q string) (criteria.SearchCriteria, bool) {
	c, ok := staticTable[q]
	if !ok {
		return criteria.SearchCriteria{}, false
	}
	return c.Clone(), true
}
