package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/pawfectfind/pawfectfind-backend/internal/matching"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
)

// MatchCacheWarmJobParams configures the recommendation cache warmer.
type MatchCacheWarmJobParams struct {
	Logger  *logger.Logger
	Matcher matchWarmer
	// Categories to warm per breed. The empty category (whole catalog) is
	// always included.
	Categories []string
}

type matchWarmer interface {
	Breeds(ctx context.Context) ([]matching.BreedRef, error)
	WarmBreed(ctx context.Context, breed matching.BreedRef, categoryID string) error
}

func NewMatchCacheWarmJob(params MatchCacheWarmJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Matcher == nil {
		return nil, fmt.Errorf("matcher required")
	}
	categories := []string{""}
	for _, c := range params.Categories {
		if c != "" {
			categories = append(categories, c)
		}
	}
	return &matchCacheWarmJob{
		logg:       params.Logger,
		matcher:    params.Matcher,
		categories: categories,
	}, nil
}

type matchCacheWarmJob struct {
	logg       *logger.Logger
	matcher    matchWarmer
	categories []string
}

func (j *matchCacheWarmJob) Name() string { return "match-cache-warm" }

// Run recomputes recommendations for every breed. A failing breed does not
// stop the others; all failures are returned together.
func (j *matchCacheWarmJob) Run(ctx context.Context) error {
	breeds, err := j.matcher.Breeds(ctx)
	if err != nil {
		return fmt.Errorf("list breeds: %w", err)
	}

	var errs error
	warmed := 0
	for _, breed := range breeds {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		for _, category := range j.categories {
			if err := j.matcher.WarmBreed(ctx, breed, category); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("breed %s category %q: %w", breed.Name, category, err))
				continue
			}
			warmed++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"breeds":   len(breeds),
		"warmed":   warmed,
		"failures": len(multierr.Errors(errs)),
	})
	j.logg.Info(logCtx, "match cache warm complete")
	return errs
}
