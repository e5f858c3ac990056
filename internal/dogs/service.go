package dogs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/pawfectfind/pawfectfind-backend/internal/matching"
	"github.com/pawfectfind/pawfectfind-backend/pkg/db"
	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
	"github.com/pawfectfind/pawfectfind-backend/pkg/retry"
)

// Service manages dog profiles for signed-in users and guests.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, profile Profile) (*DogDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]DogDTO, error)
	Get(ctx context.Context, userID, dogID uuid.UUID) (*DogDTO, error)
	Update(ctx context.Context, userID, dogID uuid.UUID, profile Profile) (*DogDTO, error)
	Delete(ctx context.Context, userID, dogID uuid.UUID) error
	Metrics(ctx context.Context, userID, dogID uuid.UUID) (*NutritionMetrics, error)
	Recommendations(ctx context.Context, userID, dogID uuid.UUID, input RecommendationInput) (*matching.Recommendation, error)
	Growth(ctx context.Context, userID, dogID uuid.UUID, gender *enums.Gender) (*GrowthPrediction, error)

	HealthHistory(ctx context.Context, userID, dogID uuid.UUID) (*HealthHistory, error)
	AddHealthRecord(ctx context.Context, userID, dogID uuid.UUID, input HealthRecordInput) (*HealthRecordDTO, error)
	UpdateHealthRecord(ctx context.Context, userID, dogID, recordID uuid.UUID, input HealthRecordInput) (*HealthRecordDTO, error)
	DeleteHealthRecord(ctx context.Context, userID, dogID, recordID uuid.UUID) error

	GuestList(ctx context.Context, token string) ([]DogDTO, error)
	GuestAdd(ctx context.Context, token string, profile Profile) (string, *DogDTO, error)
	GuestDelete(ctx context.Context, token string, dogID uuid.UUID) error
	Reconcile(ctx context.Context, userID uuid.UUID, token string) (*ReconcileResult, error)
}

// BreedWeights looks up a breed's adult weight standard for one gender.
type BreedWeights interface {
	WeightRange(ctx context.Context, breed string, gender enums.Gender) (minKG, maxKG float64, found bool, err error)
}

// RecommendationInput narrows recommendations for a stored dog.
type RecommendationInput struct {
	CategoryID string
	Query      string
}

// ReconcileResult summarizes a guest-to-account merge.
type ReconcileResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Dogs    []DogDTO `json:"dogs"`
}

// ServiceParams groups dependencies for the dog service.
type ServiceParams struct {
	Repo     *Repository
	Guests   GuestCache
	GuestTTL time.Duration
	Matcher  matching.Service
	Breeds   BreedWeights
	Retry    retry.Policy
	Logger   *logger.Logger
	Now      func() time.Time
}

type service struct {
	repo    *Repository
	guests  guestStore
	matcher matching.Service
	breeds  BreedWeights
	retry   retry.Policy
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the dog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("dog repository required")
	}
	if params.Guests == nil {
		return nil, fmt.Errorf("guest cache required")
	}
	if params.Matcher == nil {
		return nil, fmt.Errorf("matching service required")
	}
	if params.Breeds == nil {
		return nil, fmt.Errorf("breed weights required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.GuestTTL <= 0 {
		return nil, fmt.Errorf("guest ttl must be positive")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:    params.Repo,
		guests:  guestStore{cache: params.Guests, ttl: params.GuestTTL},
		matcher: params.Matcher,
		breeds:  params.Breeds,
		retry:   params.Retry,
		logg:    params.Logger,
		now:     now,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, profile Profile) (*DogDTO, error) {
	profile = profile.Normalize()
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	dog := &models.Dog{UserID: userID}
	profile.apply(dog)
	if err := s.repo.Create(ctx, dog); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert dog")
	}
	dto := NewDogDTO(dog)
	return &dto, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]DogDTO, error) {
	rows, err := retry.Value(ctx, s.retry, func(ctx context.Context) ([]models.Dog, error) {
		return s.repo.ListForUser(ctx, userID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list dogs")
	}
	out := make([]DogDTO, len(rows))
	for i := range rows {
		out[i] = NewDogDTO(&rows[i])
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, userID, dogID uuid.UUID) (*DogDTO, error) {
	dog, err := s.load(ctx, userID, dogID)
	if err != nil {
		return nil, err
	}
	dto := NewDogDTO(dog)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID, dogID uuid.UUID, profile Profile) (*DogDTO, error) {
	profile = profile.Normalize()
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	dog, err := s.load(ctx, userID, dogID)
	if err != nil {
		return nil, err
	}
	profile.apply(dog)
	if err := s.repo.Save(ctx, dog); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update dog")
	}
	dto := NewDogDTO(dog)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, userID, dogID uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, userID, dogID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete dog")
	}
	if !deleted {
		return pkgerrors.NotFound("dog")
	}
	return nil
}

func (s *service) Metrics(ctx context.Context, userID, dogID uuid.UUID) (*NutritionMetrics, error) {
	dto, err := s.Get(ctx, userID, dogID)
	if err != nil {
		return nil, err
	}
	m := Metrics(dto.profile())
	return &m, nil
}

// Recommendations matches products to the dog's breed, falling back to its
// weight when the breed is unknown.
func (s *service) Recommendations(ctx context.Context, userID, dogID uuid.UUID, input RecommendationInput) (*matching.Recommendation, error) {
	dog, err := s.load(ctx, userID, dogID)
	if err != nil {
		return nil, err
	}
	return s.matcher.RecommendForBreed(ctx, matching.RecommendInput{
		BreedName:  dog.Breed,
		Weight:     dog.Weight,
		CategoryID: input.CategoryID,
		Query:      input.Query,
	})
}

// Growth compares the dog with its breed standard. gender overrides the
// profile's gender, and male is assumed when neither is set.
func (s *service) Growth(ctx context.Context, userID, dogID uuid.UUID, gender *enums.Gender) (*GrowthPrediction, error) {
	dog, err := s.load(ctx, userID, dogID)
	if err != nil {
		return nil, err
	}
	g := enums.GenderMale
	switch {
	case gender != nil:
		g = *gender
	case dog.Gender != nil:
		g = *dog.Gender
	}

	std := WeightStandard{Gender: g}
	var found bool
	err = retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		std.MinKG, std.MaxKG, found, err = s.breeds.WeightRange(ctx, dog.Breed, g)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load breed weight standard")
	}
	if !found {
		return nil, pkgerrors.NotFound("breed weight standard").
			WithDetails(map[string]any{"breed": dog.Breed, "gender": g})
	}

	prediction, err := PredictGrowth(AgeInMonths(dog.Age), dog.Weight, std)
	if err != nil {
		return nil, err
	}
	prediction.Breed = dog.Breed
	return &prediction, nil
}

func (s *service) HealthHistory(ctx context.Context, userID, dogID uuid.UUID) (*HealthHistory, error) {
	dog, err := s.load(ctx, userID, dogID)
	if err != nil {
		return nil, err
	}
	records, err := retry.Value(ctx, s.retry, func(ctx context.Context) ([]models.HealthRecord, error) {
		return s.repo.ListHealthRecords(ctx, dog.ID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list health records")
	}
	h := summarize(dog, records)
	return &h, nil
}

func (s *service) AddHealthRecord(ctx context.Context, userID, dogID uuid.UUID, input HealthRecordInput) (*HealthRecordDTO, error) {
	day, input, err := input.parse(s.latestHealthDay())
	if err != nil {
		return nil, err
	}
	dog, err := s.load(ctx, userID, dogID)
	if err != nil {
		return nil, err
	}
	record := &models.HealthRecord{DogID: dog.ID}
	input.apply(record, day)
	if err := s.repo.CreateHealthRecord(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert health record")
	}
	dto := NewHealthRecordDTO(record)
	return &dto, nil
}

func (s *service) UpdateHealthRecord(ctx context.Context, userID, dogID, recordID uuid.UUID, input HealthRecordInput) (*HealthRecordDTO, error) {
	day, input, err := input.parse(s.latestHealthDay())
	if err != nil {
		return nil, err
	}
	record, err := s.loadHealthRecord(ctx, userID, dogID, recordID)
	if err != nil {
		return nil, err
	}
	input.apply(record, day)
	if err := s.repo.SaveHealthRecord(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update health record")
	}
	dto := NewHealthRecordDTO(record)
	return &dto, nil
}

func (s *service) DeleteHealthRecord(ctx context.Context, userID, dogID, recordID uuid.UUID) error {
	dog, err := s.load(ctx, userID, dogID)
	if err != nil {
		return err
	}
	deleted, err := s.repo.DeleteHealthRecord(ctx, dog.ID, recordID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete health record")
	}
	if !deleted {
		return pkgerrors.NotFound("health record")
	}
	return nil
}

func (s *service) loadHealthRecord(ctx context.Context, userID, dogID, recordID uuid.UUID) (*models.HealthRecord, error) {
	dog, err := s.load(ctx, userID, dogID)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.FindHealthRecord(ctx, dog.ID, recordID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("health record")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load health record")
	}
	return record, nil
}

// latestHealthDay is tomorrow in UTC; clients ahead of UTC may already be on
// the next calendar day.
func (s *service) latestHealthDay() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}

func (s *service) GuestList(ctx context.Context, token string) ([]DogDTO, error) {
	if !ValidGuestToken(token) {
		return []DogDTO{}, nil
	}
	dogs, err := s.guests.list(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest dogs")
	}
	return dogs, nil
}

// GuestAdd stores a temporary dog. A missing or malformed token is replaced
// by a fresh one, which is returned.
func (s *service) GuestAdd(ctx context.Context, token string, profile Profile) (string, *DogDTO, error) {
	profile = profile.Normalize()
	if err := profile.Validate(); err != nil {
		return "", nil, err
	}
	if !ValidGuestToken(token) {
		fresh, err := NewGuestToken()
		if err != nil {
			return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue guest token")
		}
		token = fresh
	}

	dogs, err := s.guests.list(ctx, token)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest dogs")
	}
	if len(dogs) >= MaxGuestDogs {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "too many guest dogs").
			WithDetails(map[string]any{"max": MaxGuestDogs})
	}
	dog := newGuestDog(profile, s.now())
	if err := s.guests.save(ctx, token, append(dogs, dog)); err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save guest dogs")
	}
	return token, &dog, nil
}

func (s *service) GuestDelete(ctx context.Context, token string, dogID uuid.UUID) error {
	if !ValidGuestToken(token) {
		return pkgerrors.NotFound("dog")
	}
	dogs, err := s.guests.list(ctx, token)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest dogs")
	}
	kept := dogs[:0]
	for _, d := range dogs {
		if d.ID != dogID {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(dogs) {
		return pkgerrors.NotFound("dog")
	}
	if err := s.guests.save(ctx, token, kept); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save guest dogs")
	}
	return nil
}

// Reconcile moves every guest dog into the user's account. A stored dog with
// the same name, ignoring case, is overwritten by the guest copy. The guest
// list is cleared only when every dog was saved, so a failed run can be retried.
func (s *service) Reconcile(ctx context.Context, userID uuid.UUID, token string) (*ReconcileResult, error) {
	if !ValidGuestToken(token) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest token is required")
	}
	drafts, err := s.guests.list(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest dogs")
	}

	result := &ReconcileResult{Dogs: make([]DogDTO, 0, len(drafts))}
	var errs error
	var failed []string
	for _, draft := range drafts {
		dog, created, err := s.mergeDraft(ctx, userID, draft)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("dog %q: %w", draft.Name, err))
			failed = append(failed, draft.Name)
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
		result.Dogs = append(result.Dogs, NewDogDTO(dog))
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"user_id": userID.String(),
		"created": result.Created,
		"updated": result.Updated,
		"failed":  len(failed),
	})
	if errs != nil {
		s.logg.Error(logCtx, "guest dog reconciliation incomplete", errs)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "reconcile guest dogs").
			WithDetails(map[string]any{"failed": failed})
	}

	if err := s.guests.clear(ctx, token); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear guest dogs")
	}
	s.logg.Info(logCtx, "guest dogs reconciled")
	return result, nil
}

func (s *service) mergeDraft(ctx context.Context, userID uuid.UUID, draft DogDTO) (*models.Dog, bool, error) {
	profile := draft.profile().Normalize()
	if err := profile.Validate(); err != nil {
		return nil, false, err
	}

	var dog *models.Dog
	var created bool
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		existing, err := s.repo.FindByName(ctx, userID, profile.Name)
		switch {
		case db.IsNotFound(err):
			dog = &models.Dog{UserID: userID}
			profile.apply(dog)
			created = true
			return s.repo.Create(ctx, dog)
		case err != nil:
			return err
		}
		dog = existing
		profile.apply(dog)
		created = false
		return s.repo.Save(ctx, dog)
	})
	return dog, created, err
}

func (s *service) load(ctx context.Context, userID, dogID uuid.UUID) (*models.Dog, error) {
	dog, err := s.repo.FindForUser(ctx, userID, dogID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("dog")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dog")
	}
	return dog, nil
}
