// Package catalog reads venues and partners from the PostgreSQL catalog.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/category"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/result"
)

// DefaultPartnerRating is shown for partners without reviews.
const DefaultPartnerRating = 4.5

const mediaTypeImage = "IMAGE"

// querier is the consumer interface for the catalog (ISP).
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository runs the read-only venue and partner queries.
type Repository struct {
	db querier
}

// New creates a catalog repository.
func New(q querier) *Repository {
	return &Repository{db: q}
}

// Venues returns establishments matching c, shaped as VENUE results.
func (r *Repository) Venues(ctx context.Context, c criteria.SearchCriteria) ([]result.SearchResult, error) {
	sql, args := buildVenueQuery(c)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query venues: %w: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	out := make([]result.SearchResult, 0)
	for rows.Next() {
		var v venueRow
		if err := rows.Scan(v.dest()...); err != nil {
			return nil, fmt.Errorf("scan venue: %w: %w", domain.ErrStorage, err)
		}
		out = append(out, v.shape())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate venues: %w: %w", domain.ErrStorage, err)
	}
	return out, nil
}

// Partners returns partners in the given categories matching c, shaped as PARTNER results.
func (r *Repository) Partners(
	ctx context.Context, c criteria.SearchCriteria, categories []category.Category,
) ([]result.SearchResult, error) {
	if len(categories) == 0 {
		return []result.SearchResult{}, nil
	}

	sql, args := buildPartnerQuery(c, categories)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query partners: %w: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	out := make([]result.SearchResult, 0)
	for rows.Next() {
		var p partnerRow
		if err := rows.Scan(p.dest()...); err != nil {
			return nil, fmt.Errorf("scan partner: %w: %w", domain.ErrStorage, err)
		}
		out = append(out, p.shape())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partners: %w: %w", domain.ErrStorage, err)
	}
	return out, nil
}

type venueRow struct {
	ID            string
	Name          string
	Type          *string
	City          *string
	Region        *string
	Description   *string
	Capacity      *int
	Price         *float64
	Rating        *float64
	Latitude      *float64
	Longitude     *float64
	Images        []string
	Parking       *bool
	Terrace       *bool
	Kitchen       *bool
	Accommodation *bool
	StorefrontID  *string
}

// dest lists scan targets in venueSelect column order.
func (v *venueRow) dest() []any {
	return []any{
		&v.ID, &v.Name, &v.Type, &v.City, &v.Region, &v.Description,
		&v.Capacity, &v.Price, &v.Rating, &v.Latitude, &v.Longitude, &v.Images,
		&v.Parking, &v.Terrace, &v.Kitchen, &v.Accommodation,
		&v.StorefrontID,
	}
}

func (v *venueRow) shape() result.SearchResult {
	features := []string{strings.ToLower(deref(v.Type))}
	for _, a := range []struct {
		on   *bool
		name string
	}{
		{v.Parking, "parking"},
		{v.Terrace, "terrasse"},
		{v.Kitchen, "cuisine"},
		{v.Accommodation, "hébergement"},
	} {
		if a.on != nil && *a.on {
			features = append(features, a.name)
		}
	}

	images := nonNil(v.Images)
	return result.SearchResult{
		ID:          result.DisplayID(v.StorefrontID, v.ID),
		Kind:        result.KindVenue,
		Name:        v.Name,
		Location:    joinNonEmpty(", ", deref(v.City), deref(v.Region)),
		Features:    dropEmpty(features),
		Rating:      v.Rating,
		Price:       v.Price,
		Capacity:    v.Capacity,
		Description: v.Description,
		ImageURL:    first(images),
		Images:      images,
		Latitude:    v.Latitude,
		Longitude:   v.Longitude,
	}
}

type partnerRow struct {
	ID                 string
	Name               string
	ServiceType        string
	BillingCity        *string
	Description        *string
	Price              *float64
	Rating             *float64
	MaxGuests          *int
	InterventionRadius *int
	Services           []string
	Latitude           *float64
	Longitude          *float64
	StorefrontID       *string
	StorefrontImages   []string
	MediaURL           *string
	MediaType          *string
}

// dest lists scan targets in partnerSelect column order.
func (p *partnerRow) dest() []any {
	return []any{
		&p.ID, &p.Name, &p.ServiceType, &p.BillingCity, &p.Description,
		&p.Price, &p.Rating, &p.MaxGuests, &p.InterventionRadius, &p.Services,
		&p.Latitude, &p.Longitude,
		&p.StorefrontID, &p.StorefrontImages, &p.MediaURL, &p.MediaType,
	}
}

func (p *partnerRow) shape() result.SearchResult {
	images := nonNil(p.StorefrontImages)

	imageURL := first(images)
	if imageURL == nil && p.MediaURL != nil && deref(p.MediaType) == mediaTypeImage {
		u := *p.MediaURL
		imageURL = &u
	}

	rating := DefaultPartnerRating
	if p.Rating != nil {
		rating = *p.Rating
	}

	return result.SearchResult{
		ID:                 result.DisplayID(p.StorefrontID, p.ID),
		Kind:               result.KindPartner,
		Name:               p.Name,
		Location:           deref(p.BillingCity),
		Features:           dropEmpty(nonNil(p.Services)),
		Rating:             &rating,
		Price:              p.Price,
		Capacity:           p.MaxGuests,
		Description:        p.Description,
		ImageURL:           imageURL,
		Images:             images,
		Latitude:           p.Latitude,
		Longitude:          p.Longitude,
		InterventionRadius: p.InterventionRadius,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func first(s []string) *string {
	if len(s) == 0 || s[0] == "" {
		return nil
	}
	v := s[0]
	return &v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func dropEmpty(s []string) []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(dropEmpty(parts), sep)
}
