package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/pawfectfind/pawfectfind-backend/internal/bundles"
	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
)

const defaultAuditBatchSize = 200

// BundlePriceAuditJobParams configures the bundle pricing audit.
type BundlePriceAuditJobParams struct {
	Logger     *logger.Logger
	Repository bundleAuditRepo
	BatchSize  int
}

type bundleAuditRepo interface {
	ListActive(ctx context.Context, after uuid.UUID, limit int) ([]models.Bundle, error)
	UpdatePricing(ctx context.Context, id uuid.UUID, total decimal.Decimal, pct int) error
}

func NewBundlePriceAuditJob(params BundlePriceAuditJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("bundle repository required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultAuditBatchSize
	}
	return &bundlePriceAuditJob{
		logg:  params.Logger,
		repo:  params.Repository,
		batch: batch,
	}, nil
}

type bundlePriceAuditJob struct {
	logg  *logger.Logger
	repo  bundleAuditRepo
	batch int
}

func (j *bundlePriceAuditJob) Name() string { return "bundle-price-audit" }

// Run walks active bundles in id order and rewrites totals that no longer
// match their items.
func (j *bundlePriceAuditJob) Run(ctx context.Context) error {
	var (
		errs    error
		after   uuid.UUID
		scanned int
		fixed   int
	)
	for {
		rows, err := j.repo.ListActive(ctx, after, j.batch)
		if err != nil {
			return multierr.Append(errs, fmt.Errorf("list active bundles: %w", err))
		}
		for i := range rows {
			bundle := &rows[i]
			scanned++
			quote, drifted, err := bundles.Drift(bundle)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("bundle %s: %w", bundle.ID, err))
				continue
			}
			if !drifted {
				continue
			}
			if err := j.repo.UpdatePricing(ctx, bundle.ID, quote.StoredTotal(), quote.DiscountPercentage); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("bundle %s: %w", bundle.ID, err))
				continue
			}
			fixed++
			j.logg.Warn(j.logg.WithFields(ctx, map[string]any{
				"bundle_id":      bundle.ID.String(),
				"stored_total":   bundle.TotalPrice.String(),
				"computed_total": quote.StoredTotal().String(),
			}), "bundle pricing drift corrected")
		}
		if len(rows) < j.batch {
			break
		}
		after = rows[len(rows)-1].ID
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"scanned":  scanned,
		"fixed":    fixed,
		"failures": len(multierr.Errors(errs)),
	})
	j.logg.Info(logCtx, "bundle price audit complete")
	return errs
}
