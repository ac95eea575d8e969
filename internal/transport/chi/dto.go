package chi

import (
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/result"
)

// SearchRequest is the POST /api/search body.
type SearchRequest struct {
	Query  string `json:"query"`
	Offset *int   `json:"offset,omitempty"`
	Limit  *int   `json:"limit,omitempty"`
}

// SearchParams are the GET /api/search query parameters.
type SearchParams struct {
	Q      *string
	Offset *int
	Limit  *int
}

// SearchResultItem is one hit in the response.
type SearchResultItem struct {
	ID                 string   `json:"id"`
	Type               string   `json:"type"`
	Name               string   `json:"name"`
	Location           string   `json:"location"`
	Features           []string `json:"features"`
	Rating             *float64 `json:"rating,omitempty"`
	Price              *float64 `json:"price,omitempty"`
	Capacity           *int     `json:"capacity,omitempty"`
	Description        *string  `json:"description,omitempty"`
	ImageURL           *string  `json:"imageUrl,omitempty"`
	Images             []string `json:"images"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	InterventionRadius *int     `json:"interventionRadius,omitempty"`
}

// SearchResponse is the 200 body of /api/search.
type SearchResponse struct {
	Results  []SearchResultItem      `json:"results"`
	Criteria criteria.SearchCriteria `json:"criteria"`
	Total    int                     `json:"total"`
	HasMore  bool                    `json:"hasMore"`
	Offset   int                     `json:"offset"`
	Limit    int                     `json:"limit"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is the /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func resultToDTO(r result.SearchResult) SearchResultItem {
	features := r.Features
	if features == nil {
		features = []string{}
	}
	images := r.Images
	if images == nil {
		images = []string{}
	}
	return SearchResultItem{
		ID:                 r.ID,
		Type:               string(r.Kind),
		Name:               r.Name,
		Location:           r.Location,
		Features:           features,
		Rating:             r.Rating,
		Price:              r.Price,
		Capacity:           r.Capacity,
		Description:        r.Description,
		ImageURL:           r.ImageURL,
		Images:             images,
		Latitude:           r.Latitude,
		Longitude:          r.Longitude,
		InterventionRadius: r.InterventionRadius,
	}
}
