// Package search orchestrates interpretation, retrieval and pagination for one query.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/page"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/result"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/usecase/interpret"
)

// Response is one page of results with the criteria that produced them.
type Response struct {
	Results  []result.SearchResult
	Criteria criteria.SearchCriteria
	Source   interpret.Source
	Total    int
	HasMore  bool
	Offset   int
	Limit    int
}

// Service handles free-text search.
type Service struct {
	interp Interpreter
	retr   Retriever
	limits page.Limits
}

// New creates a search service.
func New(interp Interpreter, retr Retriever, limits page.Limits) *Service {
	return &Service{interp: interp, retr: retr, limits: limits}
}

// Search validates paging, interprets the query and returns the requested window.
func (s *Service) Search(ctx context.Context, query string, offset, limit *int) (Response, error) {
	if strings.TrimSpace(query) == "" {
		return Response{}, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}

	params, err := s.limits.Params(offset, limit)
	if err != nil {
		return Response{}, err
	}

	c, src := s.interp.Interpret(ctx, query)

	candidates, err := s.retr.Retrieve(ctx, c)
	if err != nil {
		return Response{}, fmt.Errorf("retrieve candidates: %w", err)
	}

	p := page.Paginate(candidates, params)

	return Response{
		Results:  p.Items,
		Criteria: c,
		Source:   src,
		Total:    p.Total,
		HasMore:  p.HasMore,
		Offset:   p.Offset,
		Limit:    p.Limit,
	}, nil
}
