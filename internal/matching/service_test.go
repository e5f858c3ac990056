package matching

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pawfectfind/pawfectfind-backend/internal/sizing"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
	"github.com/pawfectfind/pawfectfind-backend/pkg/retry"
)

type fakeBreeds struct {
	byName map[string]BreedRef
}

func (f *fakeBreeds) BreedRefByName(_ context.Context, name string) (*BreedRef, error) {
	if b, ok := f.byName[strings.ToLower(name)]; ok {
		return &b, nil
	}
	return nil, nil
}

func (f *fakeBreeds) BreedRefByID(_ context.Context, id uuid.UUID) (*BreedRef, error) {
	for _, b := range f.byName {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeBreeds) ListBreedRefs(context.Context) ([]BreedRef, error) {
	out := make([]BreedRef, 0, len(f.byName))
	for _, b := range f.byName {
		out = append(out, b)
	}
	return out, nil
}

type fakeCatalog struct {
	mu          sync.Mutex
	products    []Candidate
	suitability map[uuid.UUID]SizeSuitability
	recs        map[uuid.UUID]map[uuid.UUID][]BreedRecommendation
	failures    int
	failErr     error
	listCalls   int
}

func (f *fakeCatalog) ListCandidates(context.Context, CandidateFilter) ([]Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.failures > 0 {
		f.failures--
		return nil, f.failErr
	}
	return f.products, nil
}

func (f *fakeCatalog) ListSizeSuitability(context.Context, CandidateFilter) (map[uuid.UUID]SizeSuitability, error) {
	return f.suitability, nil
}

func (f *fakeCatalog) ListBreedRecommendations(_ context.Context, breedID uuid.UUID, _ CandidateFilter) (map[uuid.UUID][]BreedRecommendation, error) {
	return f.recs[breedID], nil
}

func (f *fakeCatalog) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

type fakeCache struct {
	data map[string][]byte
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeCache) MatchCacheKey(breed, size, categoryID string) string {
	return strings.ToLower(breed) + "|" + size + "|" + categoryID
}

type serviceHarness struct {
	svc     Service
	catalog *fakeCatalog
	cache   *fakeCache
}

func newHarness(t *testing.T) serviceHarness {
	t.Helper()

	chew := candidate("Beagle Chew", 5)
	bed := candidate("Small Bed", 40)
	crate := candidate("Giant Crate", 90)
	catalog := &fakeCatalog{
		products: []Candidate{chew, bed, crate},
		suitability: map[uuid.UUID]SizeSuitability{
			bed.ID:   {Small: true},
			crate.ID: {Giant: true},
		},
		recs: map[uuid.UUID]map[uuid.UUID][]BreedRecommendation{
			beagleID: {chew.ID: {{BreedID: beagleID, Strength: 90}}},
		},
	}
	breeds := &fakeBreeds{byName: map[string]BreedRef{
		"beagle": {ID: beagleID, Name: "Beagle", Size: enums.SizeSmall},
		"pug":    {ID: pugID, Name: "Pug"},
	}}
	cache := &fakeCache{data: map[string][]byte{}}

	svc, err := NewService(ServiceParams{
		Breeds:   breeds,
		Catalog:  catalog,
		Cache:    cache,
		CacheTTL: time.Minute,
		Retry:    retry.Policy{MaxRetries: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond},
		Logger:   logger.New(logger.Options{ServiceName: "matching-test"}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return serviceHarness{svc: svc, catalog: catalog, cache: cache}
}

func TestRecommendForBreedRanksAndCaches(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	rec, err := h.svc.RecommendForBreed(ctx, RecommendInput{BreedName: "beagle", Weight: 80})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if rec.Size != enums.SizeSmall || rec.SizeSource != sizing.SourceBreed {
		t.Fatalf("expected breed-registered small size, got %s/%s", rec.Size, rec.SizeSource)
	}
	if got := names(rec.Products); len(got) != 2 || got[0] != "Beagle Chew" || got[1] != "Small Bed" {
		t.Fatalf("unexpected ranking %v", got)
	}
	if rec.Message != "Showing 1 Beagle-specific products and 1 size-appropriate products" {
		t.Fatalf("unexpected message %q", rec.Message)
	}
	if rec.BreedID == nil || *rec.BreedID != beagleID {
		t.Fatalf("expected breed id on result")
	}
	if len(h.cache.data) != 1 {
		t.Fatalf("expected result to be cached")
	}

	again, err := h.svc.RecommendForBreed(ctx, RecommendInput{BreedName: "Beagle"})
	if err != nil {
		t.Fatalf("recommend again: %v", err)
	}
	if h.catalog.calls() != 1 {
		t.Fatalf("expected cache hit, catalog called %d times", h.catalog.calls())
	}
	if len(again.Products) != 2 || again.Products[0].Product.Price.String() != "10" {
		t.Fatalf("cached result did not round trip: %+v", again.Products)
	}
}

func TestRecommendForBreedQueryBypassesCache(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	rec, err := h.svc.RecommendForBreed(ctx, RecommendInput{BreedName: "Beagle", Query: "bed"})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if got := names(rec.Products); len(got) != 1 || got[0] != "Small Bed" {
		t.Fatalf("expected search to narrow to the bed, got %v", got)
	}
	if rec.Message != "Showing 1 products suitable for small-sized dogs like Beagles" {
		t.Fatalf("unexpected message %q", rec.Message)
	}
	if len(h.cache.data) != 0 {
		t.Fatalf("search results must not be cached")
	}
}

func TestRecommendForUnknownBreedFallsBackToWeight(t *testing.T) {
	h := newHarness(t)

	rec, err := h.svc.RecommendForBreed(context.Background(), RecommendInput{BreedName: "Mystery Mix", Weight: 95})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if rec.Size != enums.SizeGiant || rec.SizeSource != sizing.SourceWeight {
		t.Fatalf("expected weight-derived giant, got %s/%s", rec.Size, rec.SizeSource)
	}
	if rec.BreedID != nil || rec.BreedMatches != 0 {
		t.Fatalf("unknown breed cannot have breed matches: %+v", rec)
	}
	if got := names(rec.Products); len(got) != 1 || got[0] != "Giant Crate" {
		t.Fatalf("unexpected products %v", got)
	}
}

func TestRecommendForBreedWithoutSizeUsesWeight(t *testing.T) {
	h := newHarness(t)

	rec, err := h.svc.RecommendForBreed(context.Background(), RecommendInput{BreedID: pugID, Weight: 8})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if rec.Size != enums.SizeMini || rec.SizeSource != sizing.SourceWeight {
		t.Fatalf("expected mini from weight, got %s/%s", rec.Size, rec.SizeSource)
	}
	if got := names(rec.Products); len(got) != 1 || got[0] != "Small Bed" {
		t.Fatalf("mini dogs should see small-suitable products, got %v", got)
	}
}

func TestRecommendForBreedEmptySet(t *testing.T) {
	h := newHarness(t)
	h.catalog.products = h.catalog.products[2:]

	rec, err := h.svc.RecommendForBreed(context.Background(), RecommendInput{BreedName: "Beagle"})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if !rec.Empty || rec.CatalogEmpty || len(rec.Products) != 0 {
		t.Fatalf("expected empty compatible set, got %+v", rec)
	}
	if rec.Message != "No products found specifically for Beagles or small-sized dogs" {
		t.Fatalf("unexpected message %q", rec.Message)
	}
}

func TestRecommendForBreedSearchMissIsNotAnEmptyCatalog(t *testing.T) {
	h := newHarness(t)

	rec, err := h.svc.RecommendForBreed(context.Background(), RecommendInput{BreedName: "Beagle", Query: "zzz-nothing"})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if rec.CatalogEmpty {
		t.Fatalf("catalog has products, a search miss must not report it empty: %+v", rec)
	}
	if !rec.SearchMiss || !rec.Empty || len(rec.Products) != 0 {
		t.Fatalf("expected an empty search result, got %+v", rec)
	}
	if rec.Message != "No products match your search for Beagles or small-sized dogs" {
		t.Fatalf("unexpected message %q", rec.Message)
	}

	h.catalog.products = nil
	rec, err = h.svc.RecommendForBreed(context.Background(), RecommendInput{BreedName: "Beagle", Query: "zzz-nothing"})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if !rec.CatalogEmpty || rec.SearchMiss {
		t.Fatalf("an empty catalog stays empty regardless of the query: %+v", rec)
	}
}

func TestRecommendForBreedInputErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.RecommendForBreed(ctx, RecommendInput{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = h.svc.RecommendForBreed(ctx, RecommendInput{BreedName: "Mystery Mix"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found without weight, got %v", err)
	}
	_, err = h.svc.RecommendForBreed(ctx, RecommendInput{BreedID: uuid.New(), Weight: 10})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
	for _, input := range []RecommendInput{{BreedID: pugID}, {BreedName: "Pug"}} {
		_, err = h.svc.RecommendForBreed(ctx, input)
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("sizeless breed without weight should need a weight, input=%+v err=%v", input, err)
		}
	}
	if h.catalog.calls() != 0 {
		t.Fatalf("rejected requests must not read the catalog")
	}
}

func TestRecommendForBreedRetriesCatalogReads(t *testing.T) {
	h := newHarness(t)
	h.catalog.failures = 2
	h.catalog.failErr = errors.New("connection refused")

	rec, err := h.svc.RecommendForBreed(context.Background(), RecommendInput{BreedName: "Beagle"})
	if err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if len(rec.Products) != 2 || h.catalog.calls() != 3 {
		t.Fatalf("expected 3 catalog calls, got %d", h.catalog.calls())
	}
}

func TestRecommendForBreedSurfacesDependencyFailure(t *testing.T) {
	h := newHarness(t)
	h.catalog.failures = 10
	h.catalog.failErr = errors.New("connection refused")

	_, err := h.svc.RecommendForBreed(context.Background(), RecommendInput{BreedName: "Beagle"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if h.catalog.calls() != 3 {
		t.Fatalf("expected one attempt plus two retries, got %d", h.catalog.calls())
	}
}

func TestWarmBreedStoresResult(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if err := h.svc.WarmBreed(ctx, BreedRef{ID: beagleID, Name: "Beagle", Size: enums.SizeSmall}, ""); err != nil {
		t.Fatalf("warm: %v", err)
	}
	if err := h.svc.WarmBreed(ctx, BreedRef{ID: pugID, Name: "Pug"}, ""); err != nil {
		t.Fatalf("warm sizeless breed: %v", err)
	}
	if len(h.cache.data) != 1 {
		t.Fatalf("expected only the sized breed to be cached, got %d entries", len(h.cache.data))
	}
	if _, err := h.svc.RecommendForBreed(ctx, RecommendInput{BreedName: "Beagle"}); err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if h.catalog.calls() != 1 {
		t.Fatalf("expected warmed entry to be served, catalog calls=%d", h.catalog.calls())
	}

	breeds, err := h.svc.Breeds(ctx)
	if err != nil || len(breeds) != 2 {
		t.Fatalf("expected 2 breeds, got %d err=%v", len(breeds), err)
	}
}

func TestAssembleStampsCatalogOrder(t *testing.T) {
	t.Parallel()

	a, b := candidate("a", 1), candidate("b", 2)
	out := Assemble([]Candidate{a, b},
		map[uuid.UUID]SizeSuitability{b.ID: {Large: true}},
		map[uuid.UUID][]BreedRecommendation{a.ID: {{BreedID: beagleID, Strength: 70}}})

	if out[0].CatalogIndex != 0 || out[1].CatalogIndex != 1 {
		t.Fatalf("catalog index not stamped: %+v", out)
	}
	if !out[1].SizeSuitability.Large || len(out[0].BreedRecommendations) != 1 {
		t.Fatalf("associations not attached: %+v", out)
	}
}
