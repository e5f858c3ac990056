package bundles

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	"github.com/pawfectfind/pawfectfind-backend/pkg/pagination"
)

// Repository persists bundles and their items.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// Create inserts the bundle and its items.
func (r *Repository) Create(ctx context.Context, bundle *models.Bundle) error {
	return r.db.WithContext(ctx).Create(bundle).Error
}

// FindForUser loads a bundle with items. Bundles owned by someone else are
// reported as gorm.ErrRecordNotFound.
func (r *Repository) FindForUser(ctx context.Context, userID, id uuid.UUID) (*models.Bundle, error) {
	var bundle models.Bundle
	err := preloadItems(r.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&bundle).
		Error
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

// ListForUser pages through a user's bundles, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Bundle, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	qb := preloadItems(r.db.WithContext(ctx)).Where("user_id = ?", userID)
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Bundle
	err = qb.Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).
		Error
	return rows, err
}

// ListActive returns up to limit active bundles with id greater than after, in id order.
func (r *Repository) ListActive(ctx context.Context, after uuid.UUID, limit int) ([]models.Bundle, error) {
	qb := preloadItems(r.db.WithContext(ctx)).Where("status = ?", enums.BundleStatusActive)
	if after != uuid.Nil {
		qb = qb.Where("id > ?", after)
	}
	var rows []models.Bundle
	err := qb.Order("id ASC").Limit(limit).Find(&rows).Error
	return rows, err
}

// UpdateDetails writes name, breed, and pricing.
func (r *Repository) UpdateDetails(ctx context.Context, bundle *models.Bundle) error {
	return r.db.WithContext(ctx).
		Model(&models.Bundle{}).
		Where("id = ?", bundle.ID).
		Updates(map[string]any{
			"name":                bundle.Name,
			"breed":               bundle.Breed,
			"total_price":         bundle.TotalPrice,
			"discount_percentage": bundle.DiscountPercentage,
			"updated_at":          time.Now().UTC(),
		}).
		Error
}

// UpdatePricing overwrites the stored totals of a bundle.
func (r *Repository) UpdatePricing(ctx context.Context, id uuid.UUID, total decimal.Decimal, pct int) error {
	return r.db.WithContext(ctx).
		Model(&models.Bundle{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_price":         total,
			"discount_percentage": pct,
			"updated_at":          time.Now().UTC(),
		}).
		Error
}

// ReplaceItems deletes every item of the bundle and inserts items in order.
func (r *Repository) ReplaceItems(ctx context.Context, bundleID uuid.UUID, items []models.BundleItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("bundle_id = ?", bundleID).Delete(&models.BundleItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].BundleID = bundleID
		items[i].Position = i
	}
	return tx.Create(&items).Error
}

// MarkCompleted moves an active bundle to completed.
func (r *Repository) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Bundle{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       enums.BundleStatusCompleted,
			"completed_at": at,
			"updated_at":   at,
		}).
		Error
}

// Delete removes the bundle and its items.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("bundle_id = ?", id).Delete(&models.BundleItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.Bundle{}).Error
}
