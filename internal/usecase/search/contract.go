package search

import (
	"context"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/result"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/usecase/interpret"
)

// Interpreter turns a raw query into criteria. It never fails.
type Interpreter interface {
	Interpret(ctx context.Context, raw string) (criteria.SearchCriteria, interpret.Source)
}

// Retriever fetches merged candidates for criteria.
type Retriever interface {
	Retrieve(ctx context.Context, c criteria.SearchCriteria) ([]result.SearchResult, error)
}
