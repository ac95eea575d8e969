package retrieval

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/category"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/result"
)

// --- Mocks ---

type mockVenues struct {
	results []result.SearchResult
	err     error
	calls   atomic.Int32
}

func (m *mockVenues) Venues(_ context.Context, _ criteria.SearchCriteria) ([]result.SearchResult, error) {
	m.calls.Add(1)
	return m.results, m.err
}

type mockPartners struct {
	results  []result.SearchResult
	err      error
	calls    atomic.Int32
	lastCats []category.Category
}

func (m *mockPartners) Partners(
	_ context.Context, _ criteria.SearchCriteria, cats []category.Category,
) ([]result.SearchResult, error) {
	m.calls.Add(1)
	m.lastCats = cats
	return m.results, m.err
}

func hits(kind result.Kind, ids ...string) []result.SearchResult {
	out := make([]result.SearchResult, len(ids))
	for i, id := range ids {
		out[i] = result.SearchResult{ID: id, Kind: kind}
	}
	return out
}

func types(cs ...category.Category) criteria.SearchCriteria {
	return criteria.SearchCriteria{ServiceType: cs}.WithDefaults()
}

// --- Tests ---

func TestRetrieve_PartnerOnly(t *testing.T) {
	v := &mockVenues{results: hits(result.KindVenue, "v1")}
	p := &mockPartners{results: hits(result.KindPartner, "p1", "p2")}

	got, err := New(v, p, nil).Retrieve(context.Background(), types(category.Photographer))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.calls.Load() != 0 {
		t.Error("venue branch must not run without LIEU")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	for _, r := range got {
		if r.Kind != result.KindPartner {
			t.Errorf("expected PARTNER, got %s", r.Kind)
		}
	}
	if len(p.lastCats) != 1 || p.lastCats[0] != category.Photographer {
		t.Errorf("partner categories = %v", p.lastCats)
	}
}

func TestRetrieve_VenueOnly(t *testing.T) {
	v := &mockVenues{results: hits(result.KindVenue, "v1")}
	p := &mockPartners{}

	got, err := New(v, p, nil).Retrieve(context.Background(), types(category.Venue))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.calls.Load() != 0 {
		t.Error("partner branch must not run for LIEU only")
	}
	if len(got) != 1 || got[0].ID != "v1" {
		t.Errorf("unexpected results: %+v", got)
	}
}

func TestRetrieve_MergesVenuesThenPartners(t *testing.T) {
	v := &mockVenues{results: hits(result.KindVenue, "v1", "v2")}
	p := &mockPartners{results: hits(result.KindPartner, "p1")}

	got, err := New(v, p, nil).Retrieve(context.Background(),
		types(category.Caterer, category.Venue, category.Caterer))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"v1", "v2", "p1"}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("result[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
	if len(p.lastCats) != 1 {
		t.Errorf("expected deduplicated categories, got %v", p.lastCats)
	}
}

func TestRetrieve_BranchErrorFailsAll(t *testing.T) {
	v := &mockVenues{results: hits(result.KindVenue, "v1")}
	p := &mockPartners{err: domain.ErrStorage}

	got, err := New(v, p, nil).Retrieve(context.Background(), types(category.Venue, category.Florist))
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if got != nil {
		t.Errorf("expected no partial results, got %+v", got)
	}
}

func TestRetrieve_EmptyBranches(t *testing.T) {
	got, err := New(&mockVenues{}, &mockPartners{}, nil).Retrieve(context.Background(), types(category.Venue))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
