package dogs

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
)

// TemporaryOwner marks a dog profile that only lives in the guest store.
const TemporaryOwner = "temporary"

const (
	minActivityLevel = 1
	maxActivityLevel = 10
)

// Profile is the editable part of a dog.
type Profile struct {
	Name             string
	Breed            string
	Age              float64
	Weight           float64
	ActivityLevel    int
	Gender           *enums.Gender
	HealthConditions []string
}

// DogDTO is the dog payload returned to clients. UserID is TemporaryOwner
// for guest profiles.
type DogDTO struct {
	ID               uuid.UUID     `json:"id"`
	UserID           string        `json:"user_id"`
	Name             string        `json:"name"`
	Breed            string        `json:"breed"`
	Age              float64       `json:"age"`
	Weight           float64       `json:"weight"`
	ActivityLevel    int           `json:"activity_level"`
	Gender           *enums.Gender `json:"gender,omitempty"`
	HealthConditions []string      `json:"health_conditions"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Temporary reports whether the dog has not been saved to an account yet.
func (d DogDTO) Temporary() bool {
	return d.UserID == TemporaryOwner
}

func (d DogDTO) profile() Profile {
	return Profile{
		Name:             d.Name,
		Breed:            d.Breed,
		Age:              d.Age,
		Weight:           d.Weight,
		ActivityLevel:    d.ActivityLevel,
		Gender:           d.Gender,
		HealthConditions: d.HealthConditions,
	}
}

// NewDogDTO maps a stored dog into its API shape.
func NewDogDTO(d *models.Dog) DogDTO {
	return DogDTO{
		ID:               d.ID,
		UserID:           d.UserID.String(),
		Name:             d.Name,
		Breed:            d.Breed,
		Age:              d.Age,
		Weight:           d.Weight,
		ActivityLevel:    d.ActivityLevel,
		Gender:           d.Gender,
		HealthConditions: append([]string{}, d.HealthConditions...),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// Normalize trims text fields and drops blank health conditions.
func (p Profile) Normalize() Profile {
	p.Name = strings.TrimSpace(p.Name)
	p.Breed = strings.TrimSpace(p.Breed)
	conditions := make([]string, 0, len(p.HealthConditions))
	for _, c := range p.HealthConditions {
		if c = strings.TrimSpace(c); c != "" {
			conditions = append(conditions, c)
		}
	}
	p.HealthConditions = conditions
	return p
}

// Validate reports every invalid field at once.
func (p Profile) Validate() error {
	fields := pkgerrors.FieldErrors{}
	if strings.TrimSpace(p.Name) == "" {
		fields.Add("name", "is required")
	}
	if strings.TrimSpace(p.Breed) == "" {
		fields.Add("breed", "is required")
	}
	if math.IsNaN(p.Age) || math.IsInf(p.Age, 0) || p.Age < 0 {
		fields.Add("age", "must be a number >= 0")
	}
	if math.IsNaN(p.Weight) || math.IsInf(p.Weight, 0) || p.Weight <= 0 {
		fields.Add("weight", "must be a number > 0")
	}
	if p.ActivityLevel < minActivityLevel || p.ActivityLevel > maxActivityLevel {
		fields.Add("activity_level", "must be between 1 and 10")
	}
	if p.Gender != nil && !p.Gender.IsValid() {
		fields.Add("gender", "must be male or female")
	}
	return fields.Err("invalid dog profile")
}

func (p Profile) apply(dog *models.Dog) {
	dog.Name = p.Name
	dog.Breed = p.Breed
	dog.Age = p.Age
	dog.Weight = p.Weight
	dog.ActivityLevel = p.ActivityLevel
	dog.Gender = p.Gender
	dog.HealthConditions = append([]string{}, p.HealthConditions...)
}
