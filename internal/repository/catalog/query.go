package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/category"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
)

// Fetch caps per branch.
const (
	VenueLimit   = 2000
	PartnerLimit = 1000
)

// Capacity tolerances applied to requested guest ranges.
const (
	CapacityMinTolerance = 20
	CapacityMaxTolerance = 50
)

// venueTypes maps feature/style keywords to the establishment type fragment they select.
var venueTypes = map[string]string{
	"château":    "chateau",
	"chateau":    "chateau",
	"domaine":    "domaine",
	"auberge":    "auberge",
	"salle":      "salle",
	"manoir":     "manoir",
	"ferme":      "ferme",
	"grange":     "grange",
	"moulin":     "moulin",
	"hôtel":      "hotel",
	"hotel":      "hotel",
	"restaurant": "restaurant",
	"péniche":    "peniche",
	"mas":        "mas",
	"bastide":    "bastide",
	"abbaye":     "abbaye",
}

// VenueType returns the type fragment for the first keyword present in the venue-type map.
func VenueType(keywords []string) (string, bool) {
	for _, k := range keywords {
		if t, ok := venueTypes[strings.ToLower(strings.TrimSpace(k))]; ok {
			return t, true
		}
	}
	return "", false
}

// builder accumulates AND-ed conditions with positional arguments.
type builder struct {
	conds []string
	args  []any
}

func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *builder) where(cond string) {
	b.conds = append(b.conds, cond)
}

func (b *builder) clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "\nWHERE " + strings.Join(b.conds, "\n  AND ")
}

func contains(s string) string { return "%" + s + "%" }

// locationTerms yields the full location followed by its whitespace tokens.
func locationTerms(location string) []string {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil
	}
	terms := []string{location}
	if tokens := strings.Fields(location); len(tokens) > 1 {
		terms = append(terms, tokens...)
	}
	return terms
}

// capacityBounds applies the tolerances. Bounds are widened outward to whole guests.
func capacityBounds(r *criteria.Range) (lo, hi *int) {
	if r == nil {
		return nil, nil
	}
	if r.Min != nil {
		v := int(math.Floor(*r.Min)) - CapacityMinTolerance
		lo = &v
	}
	if r.Max != nil {
		v := int(math.Ceil(*r.Max)) + CapacityMaxTolerance
		hi = &v
	}
	return lo, hi
}

const venueSelect = `SELECT e.id, e.name, e.type, e.city, e.region, e.description,
  e.max_capacity, e.min_price, e.rating, e.latitude, e.longitude, e.images,
  e.has_parking, e.has_terrace, e.has_kitchen, e.has_accommodation,
  sf.id
FROM establishments e
LEFT JOIN LATERAL (
  SELECT s.id FROM storefronts s
  WHERE s.establishment_id = e.id
  ORDER BY s.created_at
  LIMIT 1
) sf ON true`

// buildVenueQuery translates criteria into the establishment query.
func buildVenueQuery(c criteria.SearchCriteria) (string, []any) {
	var b builder

	if t, ok := VenueType(c.Keywords()); ok {
		b.where("e.type ILIKE " + b.arg(contains(t)))
	}

	if terms := locationTerms(c.Location); len(terms) > 0 {
		ors := make([]string, 0, len(terms))
		for _, term := range terms {
			p := b.arg(contains(term))
			ors = append(ors, fmt.Sprintf("e.city ILIKE %s OR e.region ILIKE %s", p, p))
		}
		b.where("(" + strings.Join(ors, " OR ") + ")")
	}

	lo, hi := capacityBounds(c.Capacity)
	if lo != nil {
		b.where("e.max_capacity >= " + b.arg(*lo))
	}
	if hi != nil {
		b.where("e.max_capacity <= " + b.arg(*hi))
	}

	return fmt.Sprintf("%s%s\nLIMIT %d", venueSelect, b.clause(), VenueLimit), b.args
}

const partnerSelect = `SELECT p.id, p.company_name, p.service_type, p.billing_city, p.description,
  p.base_price, p.rating, p.max_guests, p.intervention_radius, p.services,
  p.latitude, p.longitude,
  sf.id, sf.images, m.url, m.type
FROM partners p
LEFT JOIN LATERAL (
  SELECT s.id, s.images FROM storefronts s
  WHERE s.partner_id = p.id
  ORDER BY s.created_at
  LIMIT 1
) sf ON true
LEFT JOIN LATERAL (
  SELECT md.url, md.type FROM media md
  WHERE md.storefront_id = sf.id
  ORDER BY md.created_at
  LIMIT 1
) m ON true`

// buildPartnerQuery translates criteria into the partner query for the given categories.
func buildPartnerQuery(c criteria.SearchCriteria, categories []category.Category) (string, []any) {
	var b builder

	b.where("p.service_type = ANY(" + b.arg(category.Strings(categories)) + ")")

	if terms := locationTerms(c.Location); len(terms) > 0 {
		ors := make([]string, 0, len(terms))
		for _, term := range terms {
			like := b.arg(contains(term))
			exact := b.arg(term)
			ors = append(ors, fmt.Sprintf(
				"p.billing_city ILIKE %s OR EXISTS (SELECT 1 FROM unnest(p.intervention_cities) ic WHERE lower(ic) = lower(%s))",
				like, exact))
		}
		b.where("(" + strings.Join(ors, " OR ") + ")")
	}

	lo, hi := capacityBounds(c.Capacity)
	if lo != nil {
		b.where("p.max_guests >= " + b.arg(*lo))
	}
	if hi != nil {
		b.where("p.max_guests <= " + b.arg(*hi))
	}

	return fmt.Sprintf("%s%s\nLIMIT %d", partnerSelect, b.clause(), PartnerLimit), b.args
}
