package favorites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawfectfind/pawfectfind-backend/pkg/db"
	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
	"github.com/pawfectfind/pawfectfind-backend/pkg/pagination"
)

// Repository encapsulates favorite persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

const favoriteUniqueKey = "favorites_user_product_key"

// Add inserts a favorite. An existing favorite for the pair is not an error.
func (r *Repository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Create(&models.Favorite{UserID: userID, ProductID: productID}).
		Error
	if db.IsUniqueViolation(err, favoriteUniqueKey) {
		return nil
	}
	return err
}

// Remove deletes the favorite and reports whether one existed.
func (r *Repository) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{})
	return res.RowsAffected > 0, res.Error
}

// List pages through a user's favorites, most recent first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Favorite, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	qb := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Favorite
	err = qb.Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).
		Error
	return rows, err
}
