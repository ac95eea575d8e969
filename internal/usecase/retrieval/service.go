// Package retrieval fetches venue and partner candidates for interpreted criteria.
package retrieval

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/result"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/logger"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/metrics"
)

const (
	branchVenues   = "venues"
	branchPartners = "partners"
)

// Service runs the venue and partner branches concurrently and merges them.
type Service struct {
	venues   VenueRepository
	partners PartnerRepository
	logger   *zap.Logger
}

// New creates a retrieval service.
func New(venues VenueRepository, partners PartnerRepository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{venues: venues, partners: partners, logger: log}
}

// Retrieve returns venues followed by partners. Either branch failing fails the call.
func (s *Service) Retrieve(ctx context.Context, c criteria.SearchCriteria) ([]result.SearchResult, error) {
	var venues, partners []result.SearchResult

	g, gctx := errgroup.WithContext(ctx)

	if c.HasVenue() {
		g.Go(func() error {
			var err error
			venues, err = observe(branchVenues, func() ([]result.SearchResult, error) {
				return s.venues.Venues(gctx, c)
			})
			if err != nil {
				return fmt.Errorf("venues: %w", err)
			}
			return nil
		})
	}

	if cats := c.PartnerCategories(); len(cats) > 0 {
		g.Go(func() error {
			var err error
			partners, err = observe(branchPartners, func() ([]result.SearchResult, error) {
				return s.partners.Partners(gctx, c, cats)
			})
			if err != nil {
				return fmt.Errorf("partners: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Debug("retrieved candidates",
		zap.Int("venues", len(venues)),
		zap.Int("partners", len(partners)),
	)

	out := make([]result.SearchResult, 0, len(venues)+len(partners))
	out = append(out, venues...)
	return append(out, partners...), nil
}

func observe(branch string, fetch func() ([]result.SearchResult, error)) ([]result.SearchResult, error) {
	start := time.Now()
	rs, err := fetch()
	metrics.RetrievalDuration.WithLabelValues(branch).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	metrics.RetrievalResults.WithLabelValues(branch).Observe(float64(len(rs)))
	return rs, nil
}
