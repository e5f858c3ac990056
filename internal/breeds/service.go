package breeds

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawfectfind/pawfectfind-backend/internal/sizing"
	"github.com/pawfectfind/pawfectfind-backend/pkg/db"
	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
)

// Service exposes breed reference data and the classifier lookup.
type Service interface {
	List(ctx context.Context, search string) ([]BreedDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*BreedDTO, error)
	GetByName(ctx context.Context, name string) (*BreedDTO, error)
	SizeForBreed(ctx context.Context, name string) (enums.SizeCategory, bool, error)
	Classify(ctx context.Context, dog sizing.Dog) (sizing.Classification, error)
	ListLifeStages(ctx context.Context, breedID uuid.UUID) ([]LifeStageDTO, error)
	ReplaceLifeStages(ctx context.Context, breedID uuid.UUID, stages []LifeStageInput) ([]LifeStageDTO, error)
}

type service struct {
	repo *Repository
	tx   db.TxRunner
}

// NewService builds the breed service.
func NewService(repo *Repository, tx db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("breed repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, search string) ([]BreedDTO, error) {
	rows, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list breeds")
	}
	out := make([]BreedDTO, len(rows))
	for i := range rows {
		out[i] = NewBreedDTO(&rows[i])
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*BreedDTO, error) {
	breed, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load breed")
	}
	dto := NewBreedDTO(breed)
	return &dto, nil
}

func (s *service) GetByName(ctx context.Context, name string) (*BreedDTO, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "breed name is required")
	}
	breed, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, notFoundOr(err, "load breed")
	}
	dto := NewBreedDTO(breed)
	return &dto, nil
}

// SizeForBreed returns the registered size of the named breed. ok is false
// when the breed is unknown or has no size variation.
func (s *service) SizeForBreed(ctx context.Context, name string) (enums.SizeCategory, bool, error) {
	if strings.TrimSpace(name) == "" {
		return "", false, nil
	}
	ref, err := s.repo.BreedRefByName(ctx, name)
	if err != nil {
		return "", false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load breed size")
	}
	if ref == nil || !ref.Size.IsValid() {
		return "", false, nil
	}
	return ref.Size, true, nil
}

// Classify resolves the breed size from storage and applies the classifier.
func (s *service) Classify(ctx context.Context, dog sizing.Dog) (sizing.Classification, error) {
	size, ok, err := s.SizeForBreed(ctx, dog.Breed)
	if err != nil {
		return sizing.Classification{}, err
	}
	lookup := sizing.LookupFunc(func(string) (enums.SizeCategory, bool) { return size, ok })
	return sizing.ClassifyDetailed(dog, lookup), nil
}

func (s *service) ListLifeStages(ctx context.Context, breedID uuid.UUID) ([]LifeStageDTO, error) {
	if _, err := s.repo.FindByID(ctx, breedID); err != nil {
		return nil, notFoundOr(err, "load breed")
	}
	rows, err := s.repo.ListLifeStages(ctx, breedID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list life stages")
	}
	return newLifeStageDTOs(rows), nil
}

func (s *service) ReplaceLifeStages(ctx context.Context, breedID uuid.UUID, stages []LifeStageInput) ([]LifeStageDTO, error) {
	if err := validateLifeStages(stages); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, breedID); err != nil {
		return nil, notFoundOr(err, "load breed")
	}

	rows := make([]models.BreedLifeStage, len(stages))
	for i, st := range stages {
		rows[i] = models.BreedLifeStage{
			BreedID:            breedID,
			StageName:          st.Stage,
			StartAgeMonths:     st.StartAgeMonths,
			EndAgeMonths:       st.EndAgeMonths,
			MinWeightKG:        st.MinWeightKG,
			MaxWeightKG:        st.MaxWeightKG,
			DailyCaloriesPerKG: st.DailyCaloriesPerKG,
		}
	}
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).ReplaceLifeStages(ctx, breedID, rows)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace life stages")
	}
	return s.ListLifeStages(ctx, breedID)
}

// validateLifeStages requires well-formed, distinct, non-overlapping stages.
// Age ranges are half-open: [start, end).
func validateLifeStages(stages []LifeStageInput) error {
	seen := make(map[enums.LifeStage]struct{}, len(stages))
	for i, st := range stages {
		field := fmt.Sprintf("stages[%d]", i)
		switch {
		case !st.Stage.IsValid():
			return stageError(field, "stage", "unknown life stage")
		case st.StartAgeMonths < 0:
			return stageError(field, "start_age_months", "must be >= 0")
		case st.StartAgeMonths >= st.EndAgeMonths:
			return stageError(field, "end_age_months", "must be greater than start_age_months")
		case st.MinWeightKG < 0 || st.MinWeightKG > st.MaxWeightKG:
			return stageError(field, "max_weight_kg", "must be >= min_weight_kg")
		case st.DailyCaloriesPerKG <= 0:
			return stageError(field, "daily_calories_per_kg", "must be > 0")
		}
		if _, dup := seen[st.Stage]; dup {
			return stageError(field, "stage", "duplicate life stage")
		}
		seen[st.Stage] = struct{}{}
	}

	ordered := append([]LifeStageInput(nil), stages...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].StartAgeMonths < ordered[j].StartAgeMonths })
	for i := 1; i < len(ordered); i++ {
		if ordered[i].StartAgeMonths < ordered[i-1].EndAgeMonths {
			return pkgerrors.New(pkgerrors.CodeValidation, "life stages overlap").
				WithDetails(map[string]any{
					"stage":        string(ordered[i].Stage),
					"overlaps":     string(ordered[i-1].Stage),
					"start":        ordered[i].StartAgeMonths,
					"previous_end": ordered[i-1].EndAgeMonths,
				})
		}
	}
	return nil
}

func stageError(path, field, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid life stage").
		WithDetails(map[string]any{path + "." + field: msg})
}

func notFoundOr(err error, op string) error {
	if db.IsNotFound(err) {
		return pkgerrors.NotFound("breed")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
