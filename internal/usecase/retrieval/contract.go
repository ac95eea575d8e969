package retrieval

import (
	"context"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/category"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/result"
)

// VenueRepository fetches establishments matching criteria.
type VenueRepository interface {
	Venues(ctx context.Context, c criteria.SearchCriteria) ([]result.SearchResult, error)
}

// PartnerRepository fetches partners in the given categories matching criteria.
type PartnerRepository interface {
	Partners(ctx context.Context, c criteria.SearchCriteria, categories []category.Category) ([]result.SearchResult, error)
}
