package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
)

// Dog is a persisted dog profile owned by a user.
type Dog struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index"`
	Name             string         `gorm:"column:name;not null"`
	Breed            string         `gorm:"column:breed;not null"`
	Age              float64        `gorm:"column:age;type:numeric(5,2);not null"`
	Weight           float64        `gorm:"column:weight;type:numeric(6,2);not null"`
	ActivityLevel    int            `gorm:"column:activity_level;not null"`
	Gender           *enums.Gender  `gorm:"column:gender"`
	HealthConditions pq.StringArray `gorm:"column:health_conditions;type:text[];not null;default:'{}'"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
