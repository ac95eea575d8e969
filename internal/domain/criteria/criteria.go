// Package criteria holds the structured interpretation of a free-text search query.
package criteria

import (
	"slices"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/category"
)

// Range is an optional numeric interval; either bound may be absent.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// NewRange builds a Range from optional bounds. Returns nil when both are absent.
func NewRange(lo, hi *float64) *Range {
	if lo == nil && hi == nil {
		return nil
	}
	return &Range{Min: lo, Max: hi}
}

func (r *Range) clone() *Range {
	if r == nil {
		return nil
	}
	out := &Range{}
	if r.Min != nil {
		v := *r.Min
		out.Min = &v
	}
	if r.Max != nil {
		v := *r.Max
		out.Max = &v
	}
	return out
}

// SearchCriteria is the structured form of a search query.
type SearchCriteria struct {
	ServiceType []category.Category `json:"serviceType"`
	Location    string              `json:"location"`
	Budget      *Range              `json:"budget,omitempty"`
	Capacity    *Range              `json:"capacity,omitempty"`
	Date        string              `json:"date"`
	Features    []string            `json:"features"`
	Style       []string            `json:"style"`
}

// WithDefaults returns a copy with an empty service type replaced by the default
// category and nil lists replaced by empty ones.
func (c SearchCriteria) WithDefaults() SearchCriteria {
	out := c.Clone()
	if len(out.ServiceType) == 0 {
		out.ServiceType = []category.Category{category.Default}
	}
	return out
}

// Clone returns a deep copy. Lists in the copy are never nil.
func (c SearchCriteria) Clone() SearchCriteria {
	return SearchCriteria{
		ServiceType: cloneOrEmpty(c.ServiceType),
		Location:    c.Location,
		Budget:      c.Budget.clone(),
		Capacity:    c.Capacity.clone(),
		Date:        c.Date,
		Features:    cloneOrEmpty(c.Features),
		Style:       cloneOrEmpty(c.Style),
	}
}

// HasVenue reports whether the venue category was requested.
func (c SearchCriteria) HasVenue() bool {
	return slices.Contains(c.ServiceType, category.Venue)
}

// PartnerCategories returns the requested non-venue categories in request order, deduplicated.
func (c SearchCriteria) PartnerCategories() []category.Category {
	var out []category.Category
	for _, cat := range c.ServiceType {
		if cat.IsVenue() || slices.Contains(out, cat) {
			continue
		}
		out = append(out, cat)
	}
	return out
}

// Keywords returns features followed by style keywords.
func (c SearchCriteria) Keywords() []string {
	out := make([]string, 0, len(c.Features)+len(c.Style))
	out = append(out, c.Features...)
	return append(out, c.Style...)
}

func cloneOrEmpty[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
