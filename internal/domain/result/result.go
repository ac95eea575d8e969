// Package result defines the unified search hit returned for venues and partners.
package result

// Kind tags the entity a result was sourced from.
type Kind string

const (
	// KindVenue is sourced from an establishment.
	KindVenue Kind = "VENUE"
	// KindPartner is sourced from a service partner.
	KindPartner Kind = "PARTNER"
)

// SearchResult is a single search hit. Optional fields are nil when the source record lacks them.
type SearchResult struct {
	ID                 string
	Kind               Kind
	Name               string
	Location           string
	Features           []string
	Rating             *float64
	Price              *float64
	Capacity           *int
	Description        *string
	ImageURL           *string
	Images             []string
	Latitude           *float64
	Longitude          *float64
	InterventionRadius *int
}

// DisplayID returns the storefront id when one is linked, the entity id otherwise.
// Storefronts are the public-facing identity.
func DisplayID(storefrontID *string, entityID string) string {
	if storefrontID != nil && *storefrontID != "" {
		return *storefrontID
	}
	return entityID
}
