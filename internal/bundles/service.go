package bundles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pawfectfind/pawfectfind-backend/pkg/db"
	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/metrics"
	"github.com/pawfectfind/pawfectfind-backend/pkg/pagination"
)

// PriceReader returns the current catalog price of the products found among ids.
type PriceReader interface {
	PricesByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

// Service manages user bundles and previews bundle pricing.
type Service interface {
	Quote(ctx context.Context, items []QuoteItemInput) (*Quote, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*BundleDTO, error)
	Update(ctx context.Context, userID, bundleID uuid.UUID, input UpdateInput) (*BundleDTO, error)
	Complete(ctx context.Context, userID, bundleID uuid.UUID) (*BundleDTO, error)
	Delete(ctx context.Context, userID, bundleID uuid.UUID) error
	Get(ctx context.Context, userID, bundleID uuid.UUID) (*BundleDTO, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[BundleDTO], error)
}

// ServiceParams groups dependencies for the bundle service.
type ServiceParams struct {
	Repo    *Repository
	Prices  PriceReader
	DB      db.TxRunner
	Metrics *metrics.MatchingMetrics
	Now     func() time.Time
}

type service struct {
	repo    *Repository
	prices  PriceReader
	db      db.TxRunner
	metrics *metrics.MatchingMetrics
	now     func() time.Time
}

// NewService builds a bundle service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("bundle repository required")
	}
	if params.Prices == nil {
		return nil, fmt.Errorf("price reader required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:    params.Repo,
		prices:  params.Prices,
		db:      params.DB,
		metrics: params.Metrics,
		now:     now,
	}, nil
}

func (s *service) Quote(_ context.Context, inputs []QuoteItemInput) (*Quote, error) {
	items := make([]Item, 0, len(inputs))
	for _, in := range inputs {
		item, err := NewItem(in.ProductID, in.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	quote, err := Price(items)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordQuote(len(items), quote.DiscountPercentage)
	return &quote, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*BundleDTO, error) {
	if err := ensureTransition(enums.BundleStatusDraft, enums.BundleStatusActive); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	items, err := s.snapshot(ctx, input.ProductIDs, nil)
	if err != nil {
		return nil, err
	}
	quote, err := Price(itemsOf(items))
	if err != nil {
		return nil, err
	}

	bundle := &models.Bundle{
		UserID:             userID,
		Name:               name,
		Breed:              strings.TrimSpace(input.Breed),
		TotalPrice:         quote.StoredTotal(),
		DiscountPercentage: quote.DiscountPercentage,
		Status:             enums.BundleStatusActive,
		Items:              items,
	}
	if err := s.repo.Create(ctx, bundle); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert bundle")
	}
	return s.Get(ctx, userID, bundle.ID)
}

// Update replaces the item list wholesale and reprices it. Products already in
// the bundle keep their snapshot price; new products take the catalog price.
// Concurrent updates are not guarded: the last write wins.
func (s *service) Update(ctx context.Context, userID, bundleID uuid.UUID, input UpdateInput) (*BundleDTO, error) {
	bundle, err := s.load(ctx, userID, bundleID)
	if err != nil {
		return nil, err
	}
	if err := ensureTransition(bundle.Status, enums.BundleStatusActive); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		bundle.Name = name
	}
	if input.Breed != nil {
		bundle.Breed = strings.TrimSpace(*input.Breed)
	}

	items := bundle.Items
	if input.ProductIDs != nil {
		stored := make(map[uuid.UUID]decimal.Decimal, len(bundle.Items))
		for _, item := range bundle.Items {
			stored[item.ProductID] = item.Price
		}
		if items, err = s.snapshot(ctx, input.ProductIDs, stored); err != nil {
			return nil, err
		}
	}

	quote, err := Price(itemsOf(items))
	if err != nil {
		return nil, err
	}
	bundle.TotalPrice = quote.StoredTotal()
	bundle.DiscountPercentage = quote.DiscountPercentage

	if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UpdateDetails(ctx, bundle); err != nil {
			return err
		}
		if input.ProductIDs != nil {
			return txRepo.ReplaceItems(ctx, bundle.ID, items)
		}
		return nil
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update bundle")
	}
	return s.Get(ctx, userID, bundleID)
}

func (s *service) Complete(ctx context.Context, userID, bundleID uuid.UUID) (*BundleDTO, error) {
	bundle, err := s.load(ctx, userID, bundleID)
	if err != nil {
		return nil, err
	}
	if err := ensureTransition(bundle.Status, enums.BundleStatusCompleted); err != nil {
		return nil, err
	}
	if err := s.repo.MarkCompleted(ctx, bundle.ID, s.now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete bundle")
	}
	return s.Get(ctx, userID, bundleID)
}

func (s *service) Delete(ctx context.Context, userID, bundleID uuid.UUID) error {
	bundle, err := s.load(ctx, userID, bundleID)
	if err != nil {
		return err
	}
	if err := ensureTransition(bundle.Status, statusDeleted); err != nil {
		return err
	}
	if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, bundle.ID)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete bundle")
	}
	return nil
}

func (s *service) Get(ctx context.Context, userID, bundleID uuid.UUID) (*BundleDTO, error) {
	bundle, err := s.load(ctx, userID, bundleID)
	if err != nil {
		return nil, err
	}
	dto := NewBundleDTO(bundle)
	return &dto, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[BundleDTO], error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListForUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bundles")
	}
	rows, more := pagination.Trim(rows, params.Limit)

	page := &pagination.Page[BundleDTO]{Items: make([]BundleDTO, len(rows))}
	for i := range rows {
		page.Items[i] = NewBundleDTO(&rows[i])
	}
	if more {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

func (s *service) load(ctx context.Context, userID, bundleID uuid.UUID) (*models.Bundle, error) {
	bundle, err := s.repo.FindForUser(ctx, userID, bundleID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("bundle")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bundle")
	}
	return bundle, nil
}

// snapshot builds bundle items for productIDs. Prices come from stored when
// present, otherwise from the catalog.
func (s *service) snapshot(ctx context.Context, productIDs []uuid.UUID, stored map[uuid.UUID]decimal.Decimal) ([]models.BundleItem, error) {
	if len(productIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a bundle needs at least one product")
	}

	seen := make(map[uuid.UUID]struct{}, len(productIDs))
	var missing []uuid.UUID
	for _, id := range productIDs {
		if _, dup := seen[id]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in bundle").
				WithDetails(map[string]any{"product_id": id.String()})
		}
		seen[id] = struct{}{}
		if _, ok := stored[id]; !ok {
			missing = append(missing, id)
		}
	}

	catalog := map[uuid.UUID]decimal.Decimal{}
	if len(missing) > 0 {
		var err error
		if catalog, err = s.prices.PricesByID(ctx, missing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product prices")
		}
	}

	items := make([]models.BundleItem, len(productIDs))
	for i, id := range productIDs {
		price, ok := stored[id]
		if !ok {
			if price, ok = catalog[id]; !ok {
				return nil, pkgerrors.NotFound("product").
					WithDetails(map[string]any{"product_id": id.String()})
			}
		}
		items[i] = models.BundleItem{ProductID: id, Price: price, Position: i}
	}
	return items, nil
}
