package favorites

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pawfectfind/pawfectfind-backend/internal/products"
	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/pagination"
)

// ProductLookup is the slice of the catalog favorites depend on.
type ProductLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]products.ProductDTO, error)
}

// Service exposes the business rules for liked products.
type Service interface {
	Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	ListIDs(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[uuid.UUID], error)
	ListProducts(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[products.ProductDTO], error)
}

type service struct {
	repo     *Repository
	products ProductLookup
}

// NewService builds a favorites service with the required dependencies.
func NewService(repo *Repository, lookup ProductLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("favorites repository required")
	}
	if lookup == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	return &service{repo: repo, products: lookup}, nil
}

// Toggle flips the favorite and returns the new state.
func (s *service) Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	removed, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	if removed {
		return false, nil
	}
	if err := s.Add(ctx, userID, productID); err != nil {
		return false, err
	}
	return true, nil
}

// Add ensures the product exists and favorites it. Adding twice is a no-op.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.products.Get(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.Add(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return nil
}

// Remove drops the favorite regardless of prior state.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := s.repo.Remove(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	return nil
}

func (s *service) ListIDs(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[uuid.UUID], error) {
	rows, next, err := s.page(ctx, userID, params)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ProductID
	}
	return &pagination.Page[uuid.UUID]{Items: ids, NextCursor: next}, nil
}

// ListProducts returns favorited products, most recently liked first.
// Products removed from the catalog are skipped.
func (s *service) ListProducts(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[products.ProductDTO], error) {
	rows, next, err := s.page(ctx, userID, params)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ProductID
	}
	items := []products.ProductDTO{}
	if len(ids) > 0 {
		if items, err = s.products.ListByIDs(ctx, ids); err != nil {
			return nil, err
		}
	}
	return &pagination.Page[products.ProductDTO]{Items: items, NextCursor: next}, nil
}

func (s *service) page(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Favorite, string, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, userID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	rows, more := pagination.Trim(rows, params.Limit)
	next := ""
	if more {
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}
