package interpret

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/category"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
)

// --- Mocks ---

type mapCache struct {
	mu   sync.Mutex
	data map[string]criteria.SearchCriteria
	sets int
}

func newMapCache() *mapCache { return &mapCache{data: map[string]criteria.SearchCriteria{}} }

func (m *mapCache) Get(_ context.Context, key string) (criteria.SearchCriteria, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.data[key]
	return c.Clone(), ok
}

func (m *mapCache) Set(_ context.Context, key string, c criteria.SearchCriteria) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = c.Clone()
	m.sets++
}

type spyClassifier struct {
	result  criteria.SearchCriteria
	err     error
	calls   int
	queries []string
}

func (s *spyClassifier) Classify(_ context.Context, q string) (criteria.SearchCriteria, error) {
	s.calls++
	s.queries = append(s.queries, q)
	return s.result, s.err
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_interpretations_total"}, []string{"source"})
}

// --- Tests ---

func TestInterpret_StaticTableWins(t *testing.T) {
	spy := &spyClassifier{result: criteria.SearchCriteria{ServiceType: []category.Category{category.Caterer}}}
	svc := New(newMapCache(), spy, nil, nil)

	for q, want := range staticTable {
		got, src := svc.Interpret(context.Background(), q)
		if src != SourceStatic {
			t.Errorf("%q: source = %s, want static", q, src)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%q: got %+v, want %+v", q, got, want)
		}
	}
	if spy.calls != 0 {
		t.Errorf("classifier called %d times for static queries", spy.calls)
	}
}

func TestInterpret_StaticLookupReturnsCopy(t *testing.T) {
	svc := New(newMapCache(), nil, nil, nil)

	got, _ := svc.Interpret(context.Background(), "château mariage")
	got.Features[0] = "mutated"

	if staticTable["château mariage"].Features[0] != "château" {
		t.Fatal("caller mutation leaked into the static table")
	}
}

func TestInterpret_CachedOnSecondCall(t *testing.T) {
	spy := &spyClassifier{result: criteria.SearchCriteria{
		ServiceType: []category.Category{category.Florist},
		Location:    "Nantes",
	}}
	cv := newCounter()
	svc := New(newMapCache(), spy, cv, nil)

	first, src1 := svc.Interpret(context.Background(), "Fleurs pour mariage à Nantes")
	second, src2 := svc.Interpret(context.Background(), "  fleurs pour   mariage à nantes ")

	if spy.calls != 1 {
		t.Fatalf("classifier called %d times, want 1", spy.calls)
	}
	if spy.queries[0] != "fleurs pour mariage à nantes" {
		t.Errorf("classifier got unnormalized query %q", spy.queries[0])
	}
	if src1 != SourceClassifier || src2 != SourceCache {
		t.Errorf("sources = %s, %s", src1, src2)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached criteria differ: %+v vs %+v", first, second)
	}
	if v := testutil.ToFloat64(cv.WithLabelValues("cache")); v != 1 {
		t.Errorf("cache counter = %v", v)
	}
}

func TestInterpret_ClassifierDefaultsApplied(t *testing.T) {
	spy := &spyClassifier{result: criteria.SearchCriteria{Location: "Lyon"}}
	svc := New(newMapCache(), spy, nil, nil)

	got, _ := svc.Interpret(context.Background(), "quelque chose à lyon")
	if len(got.ServiceType) != 1 || got.ServiceType[0] != category.Venue {
		t.Errorf("serviceType = %v, want [LIEU]", got.ServiceType)
	}
	if got.Features == nil || got.Style == nil {
		t.Error("list fields must not be nil")
	}
}

func TestInterpret_HeuristicFallback(t *testing.T) {
	// Not a static key, so the classifier is consulted and fails.
	spy := &spyClassifier{err: domain.ErrClassifierUnavailable}
	cache := newMapCache()
	svc := New(cache, spy, nil, nil)

	got, src := svc.Interpret(context.Background(), "château mariage bretagne")
	if src != SourceHeuristic {
		t.Fatalf("source = %s, want heuristic", src)
	}
	if !slices.Contains(got.ServiceType, category.Venue) {
		t.Errorf("serviceType = %v, want LIEU", got.ServiceType)
	}
	if !slices.Contains(got.Features, "château") {
		t.Errorf("features = %v, want château", got.Features)
	}
	if got.Location != "Bretagne" {
		t.Errorf("location = %q", got.Location)
	}
	if cache.sets != 1 {
		t.Errorf("heuristic result not cached")
	}
}

func TestInterpret_StaticChateauWithFailingClassifier(t *testing.T) {
	svc := New(newMapCache(), &spyClassifier{err: errors.New("down")}, nil, nil)

	got, _ := svc.Interpret(context.Background(), "château mariage")
	if !slices.Contains(got.ServiceType, category.Venue) || !slices.Contains(got.Features, "château") {
		t.Errorf("got %+v", got)
	}
}

func TestInterpret_NoClassifier(t *testing.T) {
	svc := New(newMapCache(), nil, nil, nil)

	got, src := svc.Interpret(context.Background(), "dj lyon")
	if src != SourceHeuristic {
		t.Errorf("source = %s", src)
	}
	if len(got.ServiceType) != 1 || got.ServiceType[0] != category.Music {
		t.Errorf("serviceType = %v", got.ServiceType)
	}
}

func TestInterpret_ServiceTypeNeverEmpty(t *testing.T) {
	queries := []string{"", "xyz", "mariage", "photographe", "château mariage", "bonjour tout le monde"}
	svc := New(newMapCache(), &spyClassifier{result: criteria.SearchCriteria{}}, nil, nil)
	failing := New(newMapCache(), &spyClassifier{err: errors.New("down")}, nil, nil)

	for _, q := range queries {
		for _, s := range []*Service{svc, failing} {
			got, _ := s.Interpret(context.Background(), q)
			if len(got.ServiceType) == 0 {
				t.Errorf("%q: empty serviceType", q)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Photographe   MARIAGE "); got != "photographe mariage" {
		t.Errorf("Normalize = %q", got)
	}
}
