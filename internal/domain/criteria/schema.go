package criteria

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/category"
)

// SchemaVersion identifies the JSON reply shape the classifier prompt asks for.
const SchemaVersion = "2024-06"

// Decode parses a classifier reply against the versioned schema.
// Missing keys take defaults; present keys must have the declared type,
// categories must be known and range bounds must be ordered.
func Decode(data []byte) (SearchCriteria, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return SearchCriteria{}, fmt.Errorf("reply is not a JSON object: %w", err)
	}

	var out SearchCriteria

	var tags []string
	if err := field(raw, "serviceType", &tags); err != nil {
		return SearchCriteria{}, err
	}
	for _, t := range tags {
		c, err := category.Parse(t)
		if err != nil {
			return SearchCriteria{}, fmt.Errorf("serviceType: %w", err)
		}
		if !slices.Contains(out.ServiceType, c) {
			out.ServiceType = append(out.ServiceType, c)
		}
	}

	if err := field(raw, "location", &out.Location); err != nil {
		return SearchCriteria{}, err
	}
	if err := field(raw, "date", &out.Date); err != nil {
		return SearchCriteria{}, err
	}
	if err := field(raw, "features", &out.Features); err != nil {
		return SearchCriteria{}, err
	}
	if err := field(raw, "style", &out.Style); err != nil {
		return SearchCriteria{}, err
	}

	budget, err := rangeField(raw, "budget")
	if err != nil {
		return SearchCriteria{}, err
	}
	out.Budget = budget

	capacity, err := rangeField(raw, "capacity")
	if err != nil {
		return SearchCriteria{}, err
	}
	out.Capacity = capacity

	out.Location = strings.TrimSpace(out.Location)
	out.Features = lowerAll(out.Features)
	out.Style = lowerAll(out.Style)

	return out.WithDefaults(), nil
}

// field decodes raw[key] into dst when the key is present and not null.
func field(raw map[string]json.RawMessage, key string, dst any) error {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("%s: wrong type: %w", key, err)
	}
	return nil
}

func rangeField(raw map[string]json.RawMessage, key string) (*Range, error) {
	var r struct {
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	}
	if err := field(raw, key, &r); err != nil {
		return nil, err
	}
	if r.Min != nil && *r.Min < 0 {
		return nil, fmt.Errorf("%s.min must not be negative", key)
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return nil, fmt.Errorf("%s.min %g is greater than max %g", key, *r.Min, *r.Max)
	}
	return NewRange(r.Min, r.Max), nil
}

func lowerAll(s []string) []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
