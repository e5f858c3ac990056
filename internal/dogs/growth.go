package dogs

import (
	"math"

	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
)

const (
	// fullGrowthMonths is the age at which a dog is treated as fully grown.
	fullGrowthMonths = 24
	adultLowFactor   = 0.9
	adultHighFactor  = 1.1
)

// WeightStandard is a breed's adult weight range for one gender, in kg.
type WeightStandard struct {
	Gender enums.Gender
	MinKG  float64
	MaxKG  float64
}

// GrowthPrediction compares a dog's current weight with its breed standard
// scaled to its age, and projects its adult weight. Weights are kg rounded to
// two decimals.
type GrowthPrediction struct {
	Breed            string       `json:"breed"`
	Gender           enums.Gender `json:"gender"`
	AgeMonths        int          `json:"age_months"`
	CurrentWeight    float64      `json:"current_weight"`
	GrowthPercentage float64      `json:"growth_percentage"`
	IdealWeight      float64      `json:"ideal_weight"`
	IdealMinWeight   float64      `json:"ideal_min_weight"`
	IdealMaxWeight   float64      `json:"ideal_max_weight"`
	AdultMinWeight   float64      `json:"adult_min_weight"`
	AdultMaxWeight   float64      `json:"adult_max_weight"`
}

// AgeInMonths converts a profile age in years to whole months.
func AgeInMonths(years float64) int {
	return roundHalfUp(years * 12)
}

// PredictGrowth assumes linear growth up to fullGrowthMonths. The ideal range
// is the breed standard scaled by that growth share, and the adult range
// extrapolates the current weight to full growth with a 10% margin.
func PredictGrowth(ageMonths int, currentWeight float64, std WeightStandard) (GrowthPrediction, error) {
	fields := pkgerrors.FieldErrors{}
	if ageMonths < 1 {
		fields.Add("age", "must be at least one month")
	}
	if math.IsNaN(currentWeight) || math.IsInf(currentWeight, 0) || currentWeight <= 0 {
		fields.Add("weight", "must be a number > 0")
	}
	if std.MinKG <= 0 || std.MaxKG < std.MinKG {
		fields.Add("breed", "has no usable weight standard")
	}
	if err := fields.Err("cannot predict growth"); err != nil {
		return GrowthPrediction{}, err
	}

	share := math.Min(float64(ageMonths)/fullGrowthMonths, 1)
	idealMin := std.MinKG * share
	idealMax := std.MaxKG * share
	adult := currentWeight / share

	return GrowthPrediction{
		Gender:           std.Gender,
		AgeMonths:        ageMonths,
		CurrentWeight:    currentWeight,
		GrowthPercentage: round2(share * 100),
		IdealWeight:      round2((idealMin + idealMax) / 2),
		IdealMinWeight:   round2(idealMin),
		IdealMaxWeight:   round2(idealMax),
		AdultMinWeight:   round2(adult * adultLowFactor),
		AdultMaxWeight:   round2(adult * adultHighFactor),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
