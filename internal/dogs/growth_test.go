package dogs

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
)

func TestPredictGrowth(t *testing.T) {
	std := WeightStandard{Gender: enums.GenderMale, MinKG: 20, MaxKG: 30}

	tests := []struct {
		name      string
		ageMonths int
		weight    float64
		want      GrowthPrediction
	}{
		{
			name:      "half grown",
			ageMonths: 12,
			weight:    10,
			want: GrowthPrediction{
				Gender: enums.GenderMale, AgeMonths: 12, CurrentWeight: 10,
				GrowthPercentage: 50, IdealWeight: 12.5, IdealMinWeight: 10, IdealMaxWeight: 15,
				AdultMinWeight: 18, AdultMaxWeight: 22,
			},
		},
		{
			name:      "capped at full growth",
			ageMonths: 60,
			weight:    25,
			want: GrowthPrediction{
				Gender: enums.GenderMale, AgeMonths: 60, CurrentWeight: 25,
				GrowthPercentage: 100, IdealWeight: 25, IdealMinWeight: 20, IdealMaxWeight: 30,
				AdultMinWeight: 22.5, AdultMaxWeight: 27.5,
			},
		},
		{
			name:      "young puppy",
			ageMonths: 6,
			weight:    4,
			want: GrowthPrediction{
				Gender: enums.GenderMale, AgeMonths: 6, CurrentWeight: 4,
				GrowthPercentage: 25, IdealWeight: 6.25, IdealMinWeight: 5, IdealMaxWeight: 7.5,
				AdultMinWeight: 14.4, AdultMaxWeight: 17.6,
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PredictGrowth(tc.ageMonths, tc.weight, std)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPredictGrowthRejectsBadInput(t *testing.T) {
	std := WeightStandard{Gender: enums.GenderFemale, MinKG: 9, MaxKG: 11}

	_, err := PredictGrowth(0, 5, std)
	requireCode(t, err, pkgerrors.CodeValidation)
	_, err = PredictGrowth(6, math.NaN(), std)
	requireCode(t, err, pkgerrors.CodeValidation)
	_, err = PredictGrowth(6, 5, WeightStandard{MinKG: 12, MaxKG: 10})
	requireCode(t, err, pkgerrors.CodeValidation)
	_, err = PredictGrowth(6, 5, WeightStandard{})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestAgeInMonths(t *testing.T) {
	assert.Equal(t, 6, AgeInMonths(0.5))
	assert.Equal(t, 36, AgeInMonths(3))
	assert.Equal(t, 1, AgeInMonths(0.05))
	assert.Equal(t, 0, AgeInMonths(0.01))
}

func TestGrowthForStoredDog(t *testing.T) {
	h := newDogHarness(t)
	ctx := context.Background()
	owner := uuid.New()

	p := validProfile()
	p.Age = 0.5
	p.Weight = 3
	puppy, err := h.svc.Create(ctx, owner, p)
	require.NoError(t, err)

	got, err := h.svc.Growth(ctx, owner, puppy.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Beagle", got.Breed)
	assert.Equal(t, enums.GenderMale, got.Gender, "male is assumed without a gender")
	assert.Equal(t, 6, got.AgeMonths)
	assert.Equal(t, 25.0, got.GrowthPercentage)
	assert.Equal(t, 2.5, got.IdealMinWeight)
	assert.Equal(t, 2.75, got.IdealMaxWeight)
	assert.InDelta(t, 10.8, got.AdultMinWeight, 0.001)
	assert.InDelta(t, 13.2, got.AdultMaxWeight, 0.001)

	female := enums.GenderFemale
	got, err = h.svc.Growth(ctx, owner, puppy.ID, &female)
	require.NoError(t, err)
	assert.Equal(t, enums.GenderFemale, got.Gender)
	assert.Equal(t, 2.25, got.IdealMinWeight)
	assert.Equal(t, 2.5, got.IdealMaxWeight)
}

func TestGrowthUsesProfileGender(t *testing.T) {
	h := newDogHarness(t)
	ctx := context.Background()
	owner := uuid.New()

	female := enums.GenderFemale
	p := validProfile()
	p.Gender = &female
	dog, err := h.svc.Create(ctx, owner, p)
	require.NoError(t, err)

	got, err := h.svc.Growth(ctx, owner, dog.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, enums.GenderFemale, got.Gender)
	assert.Equal(t, 100.0, got.GrowthPercentage)
	assert.Equal(t, breedWeight{breed: "Beagle", gender: enums.GenderFemale}, h.breeds.asked[len(h.breeds.asked)-1])
}

func TestGrowthErrors(t *testing.T) {
	h := newDogHarness(t)
	ctx := context.Background()
	owner := uuid.New()

	dog, err := h.svc.Create(ctx, owner, validProfile())
	require.NoError(t, err)
	_, err = h.svc.Growth(ctx, uuid.New(), dog.ID, nil)
	requireCode(t, err, pkgerrors.CodeNotFound)

	p := validProfile()
	p.Name = "Mutt"
	p.Breed = "Mixed"
	mutt, err := h.svc.Create(ctx, owner, p)
	require.NoError(t, err)
	_, err = h.svc.Growth(ctx, owner, mutt.ID, nil)
	requireCode(t, err, pkgerrors.CodeNotFound)
}
