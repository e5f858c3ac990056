package dogs

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
)

// Repository persists dog profiles.
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

func (r *Repository) Create(ctx context.Context, dog *models.Dog) error {
	return r.db.WithContext(ctx).Create(dog).Error
}

func (r *Repository) Save(ctx context.Context, dog *models.Dog) error {
	return r.db.WithContext(ctx).Save(dog).Error
}

// ListForUser returns the user's dogs in creation order.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Dog, error) {
	var rows []models.Dog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindForUser returns gorm.ErrRecordNotFound for dogs owned by someone else.
func (r *Repository) FindForUser(ctx context.Context, userID, id uuid.UUID) (*models.Dog, error) {
	var dog models.Dog
	if err := r.db.WithContext(ctx).First(&dog, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &dog, nil
}

// FindByName matches the dog name ignoring case within one user's dogs.
func (r *Repository) FindByName(ctx context.Context, userID uuid.UUID, name string) (*models.Dog, error) {
	var dog models.Dog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(name) = ?", userID, strings.ToLower(strings.TrimSpace(name))).
		Order("created_at ASC").
		First(&dog).
		Error
	if err != nil {
		return nil, err
	}
	return &dog, nil
}

// Delete removes the dog and its health records.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Dog{})
		if res.Error != nil || res.RowsAffected == 0 {
			return res.Error
		}
		deleted = true
		// SQLite only cascades with foreign keys switched on.
		return tx.Where("dog_id = ?", id).Delete(&models.HealthRecord{}).Error
	})
	return deleted, err
}

func (r *Repository) CreateHealthRecord(ctx context.Context, rec *models.HealthRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *Repository) SaveHealthRecord(ctx context.Context, rec *models.HealthRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// ListHealthRecords returns a dog's records, newest day first. Records on the
// same day keep the latest entry first.
func (r *Repository) ListHealthRecords(ctx context.Context, dogID uuid.UUID) ([]models.HealthRecord, error) {
	var rows []models.HealthRecord
	err := r.db.WithContext(ctx).
		Where("dog_id = ?", dogID).
		Order("recorded_on DESC").
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindHealthRecord returns gorm.ErrRecordNotFound for records of another dog.
func (r *Repository) FindHealthRecord(ctx context.Context, dogID, id uuid.UUID) (*models.HealthRecord, error) {
	var rec models.HealthRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ? AND dog_id = ?", id, dogID).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) DeleteHealthRecord(ctx context.Context, dogID, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND dog_id = ?", id, dogID).Delete(&models.HealthRecord{})
	return res.RowsAffected > 0, res.Error
}
