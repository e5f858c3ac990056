package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// HealthRecord is one dated health check of a dog. Ownership follows the dog.
type HealthRecord struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DogID         uuid.UUID      `gorm:"column:dog_id;type:uuid;not null;index:idx_health_records_dog_date"`
	RecordedOn    time.Time      `gorm:"column:recorded_on;type:date;not null"`
	Weight        float64        `gorm:"column:weight;type:numeric(6,2);not null"`
	Height        *float64       `gorm:"column:height;type:numeric(6,2)"`
	ActivityLevel int            `gorm:"column:activity_level;not null"`
	Notes         string         `gorm:"column:notes;not null;default:''"`
	Symptoms      pq.StringArray `gorm:"column:symptoms;type:text[];not null;default:'{}'"`
	Medications   pq.StringArray `gorm:"column:medications;type:text[];not null;default:'{}'"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (HealthRecord) TableName() string { return "health_records" }
