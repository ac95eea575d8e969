package interpret

import (
	"context"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
)

// Cache memoizes criteria per normalized query.
type Cache interface {
	Get(ctx context.Context, key string) (criteria.SearchCriteria, bool)
	Set(ctx context.Context, key string, c criteria.SearchCriteria)
}

// Classifier delegates free-text understanding to an external model.
type Classifier interface {
	Classify(ctx context.Context, query string) (criteria.SearchCriteria, error)
}
