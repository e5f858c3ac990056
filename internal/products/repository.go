package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pawfectfind/pawfectfind-backend/internal/matching"
	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	"github.com/pawfectfind/pawfectfind-backend/pkg/pagination"
)

// Repository reads the product catalog.
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

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetDetail loads a product with its breed recommendations and size suitability.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("BreedRecommendations", func(db *gorm.DB) *gorm.DB {
			return db.Order("recommendation_strength DESC")
		}).
		Preload("SizeSuitability").
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs returns the products that exist among ids, in no particular order.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).
		Error
	return rows, err
}

// PricesByID returns the current catalog price of every product found among ids.
func (r *Repository) PricesByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	rows, err := r.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Price
	}
	return out, nil
}

type listQuery struct {
	Filters ListFilters
	Sort    enums.ProductSort
	Limit   int
	Offset  int
}

// List returns one page of products plus one extra row when another page exists.
func (r *Repository) List(ctx context.Context, query listQuery) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).Model(&models.Product{})

	filter := query.Filters
	if filter.CategoryID != "" {
		qb = qb.Where("category_id = ?", filter.CategoryID)
	}
	if filter.PriceMin != nil {
		qb = qb.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		qb = qb.Where("price <= ?", *filter.PriceMax)
	}
	if len(filter.Vendors) > 0 {
		qb = qb.Where("vendor IN ?", filter.Vendors)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	var rows []models.Product
	err := applySort(qb, query.Sort).
		Limit(pagination.LimitWithBuffer(query.Limit)).
		Offset(query.Offset).
		Find(&rows).
		Error
	return rows, err
}

func applySort(qb *gorm.DB, sort enums.ProductSort) *gorm.DB {
	switch sort {
	case enums.ProductSortRating:
		qb = qb.Order("rating DESC")
	case enums.ProductSortPriceAsc:
		qb = qb.Order("price ASC")
	case enums.ProductSortPriceDesc:
		qb = qb.Order("price DESC")
	default:
		qb = qb.Order("popularity DESC")
	}
	return qb.Order("id ASC")
}

func (r *Repository) catalog(ctx context.Context, filter matching.CandidateFilter) *gorm.DB {
	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.CategoryID != "" {
		qb = qb.Where("category_id = ?", filter.CategoryID)
	}
	return qb
}

// ListCandidates returns the catalog in its canonical order: popularity
// descending, then id.
func (r *Repository) ListCandidates(ctx context.Context, filter matching.CandidateFilter) ([]matching.Candidate, error) {
	var rows []models.Product
	if err := r.catalog(ctx, filter).Order("popularity DESC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]matching.Candidate, len(rows))
	for i := range rows {
		out[i] = toCandidate(&rows[i])
	}
	return out, nil
}

// ListSizeSuitability returns the size flags of every product matching filter.
func (r *Repository) ListSizeSuitability(ctx context.Context, filter matching.CandidateFilter) (map[uuid.UUID]matching.SizeSuitability, error) {
	var rows []models.ProductSizeSuitability
	err := r.db.WithContext(ctx).
		Where("product_id IN (?)", r.catalog(ctx, filter).Select("id")).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]matching.SizeSuitability, len(rows))
	for i := range rows {
		out[rows[i].ProductID] = toSuitability(&rows[i])
	}
	return out, nil
}

// ListBreedRecommendations returns the recommendations for breedID keyed by product.
func (r *Repository) ListBreedRecommendations(ctx context.Context, breedID uuid.UUID, filter matching.CandidateFilter) (map[uuid.UUID][]matching.BreedRecommendation, error) {
	var rows []models.ProductBreedRecommendation
	err := r.db.WithContext(ctx).
		Where("breed_id = ?", breedID).
		Where("product_id IN (?)", r.catalog(ctx, filter).Select("id")).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID][]matching.BreedRecommendation, len(rows))
	for _, row := range rows {
		out[row.ProductID] = append(out[row.ProductID], matching.BreedRecommendation{
			BreedID:  row.BreedID,
			Strength: row.RecommendationStrength,
		})
	}
	return out, nil
}
