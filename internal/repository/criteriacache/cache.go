// Package criteriacache memoizes interpreted SearchCriteria per normalized query.
package criteriacache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/db"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
)

const (
	tierMemory = "memory"
	tierShared = "shared"
)

// Memory is a bounded in-process LRU with per-entry TTL.
type Memory struct {
	lru        *expirable.LRU[string, criteria.SearchCriteria]
	cacheTotal *prometheus.CounterVec
}

// NewMemory creates an LRU holding at most size entries for ttl each.
// cacheTotal is a counter vec with labels "tier" and "result", passed explicitly.
func NewMemory(size int, ttl time.Duration, cacheTotal *prometheus.CounterVec) *Memory {
	return &Memory{
		lru:        expirable.NewLRU[string, criteria.SearchCriteria](size, nil, ttl),
		cacheTotal: cacheTotal,
	}
}

// Get returns a copy of the cached criteria.
func (m *Memory) Get(_ context.Context, key string) (criteria.SearchCriteria, bool) {
	v, ok := m.lru.Get(key)
	if !ok {
		inc(m.cacheTotal, tierMemory, "miss")
		return criteria.SearchCriteria{}, false
	}
	inc(m.cacheTotal, tierMemory, "hit")
	return v.Clone(), true
}

// Set stores a copy so later caller mutations do not leak into the cache.
func (m *Memory) Set(_ context.Context, key string, c criteria.SearchCriteria) {
	m.lru.Add(key, c.Clone())
}

// Len reports the number of live entries.
func (m *Memory) Len() int { return m.lru.Len() }

// kvStore is the consumer interface for the shared tier (ISP).
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Shared keeps criteria in Redis/Valkey so replicas share interpretations.
// Store failures are logged and reported as misses.
type Shared struct {
	store      kvStore
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// NewShared creates the shared tier. prefix namespaces every key.
func NewShared(
	s kvStore,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Shared {
	return &Shared{
		store:      s,
		prefix:     prefix + "criteria:" + criteria.SchemaVersion + ":",
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get fetches and decodes the entry for key.
func (s *Shared) Get(ctx context.Context, key string) (criteria.SearchCriteria, bool) {
	k := s.cacheKey(key)

	data, err := s.store.Get(ctx, k)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			s.logger.Warn("Failed to get cached criteria", zap.String("key", k), zap.Error(err))
		}
		inc(s.cacheTotal, tierShared, "miss")
		return criteria.SearchCriteria{}, false
	}

	var c criteria.SearchCriteria
	if err := json.Unmarshal(data, &c); err != nil {
		s.logger.Warn("Failed to parse cached criteria", zap.String("key", k), zap.Error(err))
		inc(s.cacheTotal, tierShared, "miss")
		return criteria.SearchCriteria{}, false
	}

	inc(s.cacheTotal, tierShared, "hit")
	return c.WithDefaults(), true
}

// Set encodes and stores c with the configured TTL.
func (s *Shared) Set(ctx context.Context, key string, c criteria.SearchCriteria) {
	k := s.cacheKey(key)

	data, err := json.Marshal(c)
	if err != nil {
		s.logger.Warn("Failed to encode criteria", zap.String("key", k), zap.Error(err))
		return
	}
	if err := s.store.SetWithTTL(ctx, k, data, s.ttl); err != nil {
		s.logger.Warn("Failed to cache criteria", zap.String("key", k), zap.Error(err))
	}
}

func (s *Shared) cacheKey(query string) string {
	h := sha256.Sum256([]byte(query))
	return s.prefix + hex.EncodeToString(h[:])
}

// Tiered reads memory first, then the shared tier, back-filling memory on shared hits.
type Tiered struct {
	memory *Memory
	shared *Shared
}

// NewTiered combines both tiers.
func NewTiered(memory *Memory, shared *Shared) *Tiered {
	return &Tiered{memory: memory, shared: shared}
}

// Get implements the interpreter cache contract.
func (t *Tiered) Get(ctx context.Context, key string) (criteria.SearchCriteria, bool) {
	if c, ok := t.memory.Get(ctx, key); ok {
		return c, true
	}
	c, ok := t.shared.Get(ctx, key)
	if !ok {
		return criteria.SearchCriteria{}, false
	}
	t.memory.Set(ctx, key, c)
	return c, true
}

// Set writes through to both tiers.
func (t *Tiered) Set(ctx context.Context, key string, c criteria.SearchCriteria) {
	t.memory.Set(ctx, key, c)
	t.shared.Set(ctx, key, c)
}

func inc(cv *prometheus.CounterVec, tier, result string) {
	if cv != nil {
		cv.WithLabelValues(tier, result).Inc()
	}
}
