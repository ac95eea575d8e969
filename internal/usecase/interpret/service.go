// Package interpret turns raw search queries into SearchCriteria.
package interpret

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/category"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/logger"
)

// Source names the tier that produced a criteria value.
type Source string

// Interpretation tiers in lookup order.
const (
	SourceCache      Source = "cache"
	SourceStatic     Source = "static"
	SourceClassifier Source = "classifier"
	SourceHeuristic  Source = "heuristic"
)

// Service resolves queries through cache, static table, classifier and heuristic, first hit wins.
type Service struct {
	cache      Cache
	classifier Classifier
	sources    *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates the interpreter. classifier can be nil (heuristic only).
// sources is a counter vec with label "source", passed explicitly.
func New(cache Cache, classifier Classifier, sources *prometheus.CounterVec, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cache: cache, classifier: classifier, sources: sources, logger: log}
}

// Normalize lower-cases, trims and collapses inner whitespace.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// Interpret never fails: classifier errors degrade to the heuristic.
func (s *Service) Interpret(ctx context.Context, raw string) (criteria.SearchCriteria, Source) {
	q := Normalize(raw)
	log := logger.FromContext(ctx, s.logger).With(zap.String("query", q))

	if c, ok := s.cache.Get(ctx, q); ok {
		return s.done(log, c, SourceCache)
	}

	if c, ok := lookupStatic(q); ok {
		s.cache.Set(ctx, q, c)
		return s.done(log, c, SourceStatic)
	}

	if s.classifier != nil {
		c, err := s.classifier.Classify(ctx, q)
		if err == nil {
			c = c.WithDefaults()
			s.cache.Set(ctx, q, c)
			return s.done(log, c, SourceClassifier)
		}
		log.Warn("classifier failed, using heuristic", zap.Error(err))
	}

	c := classifyHeuristic(q)
	s.cache.Set(ctx, q, c)
	return s.done(log, c, SourceHeuristic)
}

func (s *Service) done(log *zap.Logger, c criteria.SearchCriteria, src Source) (criteria.SearchCriteria, Source) {
	if s.sources != nil {
		s.sources.WithLabelValues(string(src)).Inc()
	}
	log.Debug("interpreted query",
		zap.String("source", string(src)),
		zap.Strings("service_type", category.Strings(c.ServiceType)),
		zap.String("location", c.Location),
	)
	return c, src
}
