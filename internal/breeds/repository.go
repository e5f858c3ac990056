package breeds

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawfectfind/pawfectfind-backend/internal/matching"
	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
)

// Repository reads breed reference data.
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

func preloadVariations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("SizeVariations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		Preload("SizeVariations.Characteristics", func(db *gorm.DB) *gorm.DB {
			return db.Order("gender ASC")
		})
}

// List returns breeds ordered by name, optionally narrowed by a name substring.
func (r *Repository) List(ctx context.Context, search string) ([]models.Breed, error) {
	qb := preloadVariations(r.db.WithContext(ctx))
	if search = strings.TrimSpace(search); search != "" {
		qb = qb.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	var rows []models.Breed
	err := qb.Order("name ASC").Find(&rows).Error
	return rows, err
}

// FindByID loads a breed with its size variations and characteristics.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Breed, error) {
	var breed models.Breed
	if err := preloadVariations(r.db.WithContext(ctx)).First(&breed, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &breed, nil
}

// FindByName matches the breed name ignoring case and surrounding whitespace.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Breed, error) {
	var breed models.Breed
	err := preloadVariations(r.db.WithContext(ctx)).
		First(&breed, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Error
	if err != nil {
		return nil, err
	}
	return &breed, nil
}

// ListLifeStages returns the stages of a breed ordered by starting age.
func (r *Repository) ListLifeStages(ctx context.Context, breedID uuid.UUID) ([]models.BreedLifeStage, error) {
	var rows []models.BreedLifeStage
	err := r.db.WithContext(ctx).
		Where("breed_id = ?", breedID).
		Order("start_age_months ASC").
		Find(&rows).
		Error
	return rows, err
}

// ReplaceLifeStages deletes every stage of the breed and inserts stages.
// Callers run it inside a transaction.
func (r *Repository) ReplaceLifeStages(ctx context.Context, breedID uuid.UUID, stages []models.BreedLifeStage) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("breed_id = ?", breedID).Delete(&models.BreedLifeStage{}).Error; err != nil {
		return err
	}
	if len(stages) == 0 {
		return nil
	}
	return tx.Create(&stages).Error
}

// BreedRefByName implements matching.BreedReader.
func (r *Repository) BreedRefByName(ctx context.Context, name string) (*matching.BreedRef, error) {
	breed, err := r.FindByName(ctx, name)
	return refOrNil(breed, err)
}

// BreedRefByID implements matching.BreedReader.
func (r *Repository) BreedRefByID(ctx context.Context, id uuid.UUID) (*matching.BreedRef, error) {
	breed, err := r.FindByID(ctx, id)
	return refOrNil(breed, err)
}

// ListBreedRefs implements matching.BreedReader.
func (r *Repository) ListBreedRefs(ctx context.Context) ([]matching.BreedRef, error) {
	rows, err := r.List(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make([]matching.BreedRef, len(rows))
	for i := range rows {
		out[i] = toRef(&rows[i])
	}
	return out, nil
}

// WeightRange returns the adult weight standard for gender from the breed's
// first size variation. found is false when the breed or the gender row is
// missing.
func (r *Repository) WeightRange(ctx context.Context, name string, gender enums.Gender) (minKG, maxKG float64, found bool, err error) {
	breed, err := r.FindByName(ctx, name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return 0, 0, false, nil
	case err != nil:
		return 0, 0, false, err
	case len(breed.SizeVariations) == 0:
		return 0, 0, false, nil
	}
	for _, c := range breed.SizeVariations[0].Characteristics {
		if c.Gender == gender {
			return c.WeightMinKG, c.WeightMaxKG, true, nil
		}
	}
	return 0, 0, false, nil
}

func refOrNil(breed *models.Breed, err error) (*matching.BreedRef, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	ref := toRef(breed)
	return &ref, nil
}

// toRef takes the first registered size variation as the breed's size.
func toRef(breed *models.Breed) matching.BreedRef {
	ref := matching.BreedRef{ID: breed.ID, Name: breed.Name}
	if len(breed.SizeVariations) > 0 {
		ref.Size = breed.SizeVariations[0].SizeCategory
	}
	return ref
}
