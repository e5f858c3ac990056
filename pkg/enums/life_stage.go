package enums

import "fmt"

// LifeStage names a breed growth stage.
type LifeStage string

const (
	LifeStagePuppy     LifeStage = "puppy"
	LifeStageJunior    LifeStage = "junior"
	LifeStageAdult     LifeStage = "adult"
	LifeStageSenior    LifeStage = "senior"
	LifeStageGeriatric LifeStage = "geriatric"
)

var validLifeStages = []LifeStage{
	LifeStagePuppy,
	LifeStageJunior,
	LifeStageAdult,
	LifeStageSenior,
	LifeStageGeriatric,
}

// String implements fmt.Stringer.
func (l LifeStage) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LifeStage.
func (l LifeStage) IsValid() bool {
	for _, candidate := range validLifeStages {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLifeStage converts raw input into a LifeStage.
func ParseLifeStage(value string) (LifeStage, error) {
	for _, candidate := range validLifeStages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid life stage %q", value)
}
