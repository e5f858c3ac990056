package dogs

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
)

const (
	healthDateLayout = "2006-01-02"
	maxHealthNotes   = 2000
	maxHealthEntries = 20
)

// Trend directions between the two latest health records.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// HealthRecordInput is the editable part of a health record. Date is a
// calendar day in YYYY-MM-DD form.
type HealthRecordInput struct {
	Date          string
	Weight        float64
	Height        *float64
	ActivityLevel int
	Notes         string
	Symptoms      []string
	Medications   []string
}

type HealthRecordDTO struct {
	ID            uuid.UUID `json:"id"`
	DogID         uuid.UUID `json:"dog_id"`
	Date          string    `json:"date"`
	Weight        float64   `json:"weight"`
	Height        *float64  `json:"height,omitempty"`
	ActivityLevel int       `json:"activity_level"`
	Notes         string    `json:"notes"`
	Symptoms      []string  `json:"symptoms"`
	Medications   []string  `json:"medications"`
	CreatedAt     time.Time `json:"created_at"`
}

// HealthHistory is a dog's records, newest first, with the latest readings.
// Latest values fall back to the dog profile when there are no records, and
// LastCheck is empty then.
type HealthHistory struct {
	Records        []HealthRecordDTO `json:"records"`
	LatestWeight   float64           `json:"latest_weight"`
	LatestActivity int               `json:"latest_activity_level"`
	LastCheck      string            `json:"last_check,omitempty"`
	WeightTrend    string            `json:"weight_trend"`
	ActivityTrend  string            `json:"activity_trend"`
}

func NewHealthRecordDTO(r *models.HealthRecord) HealthRecordDTO {
	return HealthRecordDTO{
		ID:            r.ID,
		DogID:         r.DogID,
		Date:          r.RecordedOn.Format(healthDateLayout),
		Weight:        r.Weight,
		Height:        r.Height,
		ActivityLevel: r.ActivityLevel,
		Notes:         r.Notes,
		Symptoms:      append([]string{}, r.Symptoms...),
		Medications:   append([]string{}, r.Medications...),
		CreatedAt:     r.CreatedAt,
	}
}

// parse validates the input and returns the record day. today bounds the
// date so checks cannot be logged ahead of time.
func (in HealthRecordInput) parse(today time.Time) (time.Time, HealthRecordInput, error) {
	in.Notes = strings.TrimSpace(in.Notes)
	in.Symptoms = cleanList(in.Symptoms)
	in.Medications = cleanList(in.Medications)

	fields := pkgerrors.FieldErrors{}
	day, err := time.Parse(healthDateLayout, strings.TrimSpace(in.Date))
	switch {
	case err != nil:
		fields.Add("date", "must be a date in YYYY-MM-DD form")
	case day.After(today):
		fields.Add("date", "cannot be in the future")
	}
	if math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) || in.Weight <= 0 {
		fields.Add("weight", "must be a number > 0")
	}
	if in.Height != nil && (math.IsNaN(*in.Height) || math.IsInf(*in.Height, 0) || *in.Height <= 0) {
		fields.Add("height", "must be a number > 0")
	}
	if in.ActivityLevel < minActivityLevel || in.ActivityLevel > maxActivityLevel {
		fields.Add("activity_level", "must be between 1 and 10")
	}
	if len(in.Notes) > maxHealthNotes {
		fields.Add("notes", "is too long")
	}
	if len(in.Symptoms) > maxHealthEntries {
		fields.Add("symptoms", "has too many entries")
	}
	if len(in.Medications) > maxHealthEntries {
		fields.Add("medications", "has too many entries")
	}
	if err := fields.Err("invalid health record"); err != nil {
		return time.Time{}, in, err
	}
	return day, in, nil
}

func (in HealthRecordInput) apply(r *models.HealthRecord, day time.Time) {
	r.RecordedOn = day
	r.Weight = in.Weight
	r.Height = in.Height
	r.ActivityLevel = in.ActivityLevel
	r.Notes = in.Notes
	r.Symptoms = in.Symptoms
	r.Medications = in.Medications
}

// summarize expects records newest first.
func summarize(dog *models.Dog, records []models.HealthRecord) HealthHistory {
	h := HealthHistory{
		Records:        make([]HealthRecordDTO, len(records)),
		LatestWeight:   dog.Weight,
		LatestActivity: dog.ActivityLevel,
		WeightTrend:    TrendStable,
		ActivityTrend:  TrendStable,
	}
	for i := range records {
		h.Records[i] = NewHealthRecordDTO(&records[i])
	}
	if len(records) == 0 {
		return h
	}
	latest := records[0]
	h.LatestWeight = latest.Weight
	h.LatestActivity = latest.ActivityLevel
	h.LastCheck = latest.RecordedOn.Format(healthDateLayout)
	if len(records) > 1 {
		prev := records[1]
		h.WeightTrend = trend(latest.Weight, prev.Weight)
		h.ActivityTrend = trend(float64(latest.ActivityLevel), float64(prev.ActivityLevel))
	}
	return h
}

func trend(latest, previous float64) string {
	switch {
	case latest > previous:
		return TrendIncreasing
	case latest < previous:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
