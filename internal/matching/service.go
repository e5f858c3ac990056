package matching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pawfectfind/pawfectfind-backend/internal/sizing"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
	"github.com/pawfectfind/pawfectfind-backend/pkg/metrics"
	"github.com/pawfectfind/pawfectfind-backend/pkg/retry"
)

// BreedRef is the slice of breed data the matcher needs.
type BreedRef struct {
	ID   uuid.UUID
	Name string
	// Size is empty when the breed has no registered size variation.
	Size enums.SizeCategory
}

// BreedReader resolves breeds. Both methods return (nil, nil) when the breed does not exist.
type BreedReader interface {
	BreedRefByName(ctx context.Context, name string) (*BreedRef, error)
	BreedRefByID(ctx context.Context, id uuid.UUID) (*BreedRef, error)
	ListBreedRefs(ctx context.Context) ([]BreedRef, error)
}

// CandidateFilter narrows the catalog before matching.
type CandidateFilter struct {
	CategoryID string
}

// CatalogReader exposes the three catalog reads a recommendation needs.
type CatalogReader interface {
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]Candidate, error)
	ListSizeSuitability(ctx context.Context, filter CandidateFilter) (map[uuid.UUID]SizeSuitability, error)
	ListBreedRecommendations(ctx context.Context, breedID uuid.UUID, filter CandidateFilter) (map[uuid.UUID][]BreedRecommendation, error)
}

// Cache stores ranked recommendations.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	MatchCacheKey(breed, size, categoryID string) string
}

// RecommendInput selects the breed by name or id. Weight is used when the
// breed has no registered size.
type RecommendInput struct {
	BreedName  string
	BreedID    uuid.UUID
	Weight     float64
	CategoryID string
	Query      string
}

// Recommendation is a ranked, compatible product list for one breed.
type Recommendation struct {
	Breed        string             `json:"breed"`
	BreedID      *uuid.UUID         `json:"breed_id,omitempty"`
	Size         enums.SizeCategory `json:"size"`
	SizeSource   sizing.Source      `json:"size_source"`
	Products     []Match            `json:"products"`
	BreedMatches int                `json:"breed_matches"`
	SizeMatches  int                `json:"size_matches"`
	Empty        bool               `json:"empty"`
	CatalogEmpty bool               `json:"catalog_empty"`
	SearchMiss   bool               `json:"search_miss"`
	Message      string             `json:"message"`
}

// Service produces breed-aware recommendations from the catalog.
type Service interface {
	RecommendForBreed(ctx context.Context, input RecommendInput) (*Recommendation, error)
	WarmBreed(ctx context.Context, breed BreedRef, categoryID string) error
	Breeds(ctx context.Context) ([]BreedRef, error)
}

// ServiceParams wires the matcher's collaborators.
type ServiceParams struct {
	Breeds   BreedReader
	Catalog  CatalogReader
	Cache    Cache
	CacheTTL time.Duration
	Retry    retry.Policy
	Metrics  *metrics.MatchingMetrics
	Logger   *logger.Logger
}

type service struct {
	breeds   BreedReader
	catalog  CatalogReader
	cache    Cache
	cacheTTL time.Duration
	retry    retry.Policy
	metrics  *metrics.MatchingMetrics
	logg     *logger.Logger
}

// NewService builds the recommendation service. Cache and Metrics are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Breeds == nil {
		return nil, fmt.Errorf("breed reader required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		breeds:   params.Breeds,
		catalog:  params.Catalog,
		cache:    params.Cache,
		cacheTTL: params.CacheTTL,
		retry:    params.Retry,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

func (s *service) RecommendForBreed(ctx context.Context, input RecommendInput) (*Recommendation, error) {
	breed, err := s.resolveBreed(ctx, input)
	if err != nil {
		return nil, err
	}
	if breed != nil && !breed.Size.IsValid() && input.Weight <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "breed has no registered size; provide a weight to match by size").
			WithDetails(map[string]any{"breed": breed.Name})
	}

	name := strings.TrimSpace(input.BreedName)
	var breedID uuid.UUID
	if breed != nil {
		name = breed.Name
		breedID = breed.ID
	}
	class := sizing.ClassifyDetailed(sizing.Dog{Breed: name, Weight: input.Weight}, refLookup(breed))

	useCache := s.cache != nil && strings.TrimSpace(input.Query) == ""
	var key string
	if useCache {
		key = s.cache.MatchCacheKey(name, class.Size.String(), input.CategoryID)
		var cached Recommendation
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.warn(ctx, key, "recommendation cache read failed", err)
		}
		s.metrics.RecordCache(found)
		if found {
			s.metrics.RecordOutcome(class.Size.String(), outcome(cached))
			return &cached, nil
		}
	}

	candidates, err := s.loadCandidates(ctx, breedID, CandidateFilter{CategoryID: input.CategoryID})
	if err != nil {
		return nil, err
	}

	rec := build(name, breedID, class, candidates, input.Query)
	s.metrics.RecordOutcome(class.Size.String(), outcome(*rec))

	if useCache {
		if err := s.cache.SetJSON(ctx, key, rec, s.cacheTTL); err != nil {
			s.warn(ctx, key, "recommendation cache write failed", err)
		}
	}
	return rec, nil
}

// WarmBreed recomputes and stores the cached recommendation for breed.
// Breeds without a registered size are skipped.
func (s *service) WarmBreed(ctx context.Context, breed BreedRef, categoryID string) error {
	if s.cache == nil || !breed.Size.IsValid() {
		return nil
	}
	class := sizing.ClassifyDetailed(sizing.Dog{Breed: breed.Name}, refLookup(&breed))
	candidates, err := s.loadCandidates(ctx, breed.ID, CandidateFilter{CategoryID: categoryID})
	if err != nil {
		return err
	}
	rec := build(breed.Name, breed.ID, class, candidates, "")
	key := s.cache.MatchCacheKey(breed.Name, class.Size.String(), categoryID)
	if err := s.cache.SetJSON(ctx, key, rec, s.cacheTTL); err != nil {
		return fmt.Errorf("cache %s: %w", breed.Name, err)
	}
	return nil
}

func (s *service) Breeds(ctx context.Context) ([]BreedRef, error) {
	return retry.Value(ctx, s.retry, s.breeds.ListBreedRefs)
}

func (s *service) resolveBreed(ctx context.Context, input RecommendInput) (*BreedRef, error) {
	name := strings.TrimSpace(input.BreedName)
	switch {
	case input.BreedID != uuid.Nil:
		breed, err := retry.Value(ctx, s.retry, func(ctx context.Context) (*BreedRef, error) {
			return s.breeds.BreedRefByID(ctx, input.BreedID)
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load breed")
		}
		if breed == nil {
			return nil, pkgerrors.NotFound("breed")
		}
		return breed, nil
	case name != "":
		breed, err := retry.Value(ctx, s.retry, func(ctx context.Context) (*BreedRef, error) {
			return s.breeds.BreedRefByName(ctx, name)
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load breed")
		}
		if breed == nil && input.Weight <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "breed not found; provide a weight to match by size").
				WithDetails(map[string]any{"breed": name})
		}
		return breed, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "breed or breed_id is required")
	}
}

// loadCandidates runs the three catalog reads concurrently and joins them.
func (s *service) loadCandidates(ctx context.Context, breedID uuid.UUID, filter CandidateFilter) ([]Candidate, error) {
	var (
		products    []Candidate
		suitability map[uuid.UUID]SizeSuitability
		recs        map[uuid.UUID][]BreedRecommendation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = retry.Value(gctx, s.retry, func(ctx context.Context) ([]Candidate, error) {
			return s.catalog.ListCandidates(ctx, filter)
		})
		return err
	})
	g.Go(func() error {
		var err error
		suitability, err = retry.Value(gctx, s.retry, func(ctx context.Context) (map[uuid.UUID]SizeSuitability, error) {
			return s.catalog.ListSizeSuitability(ctx, filter)
		})
		return err
	})
	if breedID != uuid.Nil {
		g.Go(func() error {
			var err error
			recs, err = retry.Value(gctx, s.retry, func(ctx context.Context) (map[uuid.UUID][]BreedRecommendation, error) {
				return s.catalog.ListBreedRecommendations(ctx, breedID, filter)
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
	}

	return Assemble(products, suitability, recs), nil
}

// Assemble attaches suitability and recommendations to catalog rows and
// stamps each row with its catalog position.
func Assemble(products []Candidate, suitability map[uuid.UUID]SizeSuitability, recs map[uuid.UUID][]BreedRecommendation) []Candidate {
	out := make([]Candidate, len(products))
	for i, p := range products {
		p.CatalogIndex = i
		if s, ok := suitability[p.ID]; ok {
			p.SizeSuitability = s
		}
		if r, ok := recs[p.ID]; ok {
			p.BreedRecommendations = append([]BreedRecommendation(nil), r...)
		}
		out[i] = p
	}
	return out
}

// build searches, filters and ranks catalog. Catalog emptiness is judged on
// the unsearched list so a query that matches nothing is not mistaken for a
// missing catalog.
func build(name string, breedID uuid.UUID, class sizing.Classification, catalog []Candidate, query string) *Recommendation {
	res := FilterCompatible(Search(catalog, query), breedID, class.Size)
	if res.CatalogEmpty && len(catalog) > 0 {
		res.CatalogEmpty = false
		res.SearchMiss = true
	}
	rec := &Recommendation{
		Breed:        name,
		Size:         class.Size,
		SizeSource:   class.Source,
		Products:     Rank(res.Matches),
		BreedMatches: res.BreedMatches,
		SizeMatches:  res.SizeMatches,
		Empty:        res.Empty,
		CatalogEmpty: res.CatalogEmpty,
		SearchMiss:   res.SearchMiss,
		Message:      InfoMessage(name, class.Size, res),
	}
	if breedID != uuid.Nil {
		id := breedID
		rec.BreedID = &id
	}
	return rec
}

func (s *service) warn(ctx context.Context, key, msg string, err error) {
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), msg)
}

func refLookup(breed *BreedRef) sizing.BreedLookup {
	return sizing.LookupFunc(func(string) (enums.SizeCategory, bool) {
		if breed == nil || !breed.Size.IsValid() {
			return "", false
		}
		return breed.Size, true
	})
}

func outcome(rec Recommendation) string {
	switch {
	case rec.CatalogEmpty:
		return metrics.OutcomeNoCatalog
	case rec.Empty:
		return metrics.OutcomeEmpty
	case rec.BreedMatches == 0:
		return metrics.OutcomeSizeOnly
	default:
		return metrics.OutcomeMixed
	}
}
