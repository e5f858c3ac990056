package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// assignID fills empty primary keys so inserts behave the same on dialects
// without gen_random_uuid().
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (b *Breed) BeforeCreate(*gorm.DB) error {
	assignID(&b.ID)
	return nil
}

func (v *BreedSizeVariation) BeforeCreate(*gorm.DB) error {
	assignID(&v.ID)
	return nil
}

func (c *BreedCharacteristics) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (s *BreedLifeStage) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}

func (r *ProductBreedRecommendation) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}

func (b *Bundle) BeforeCreate(*gorm.DB) error {
	assignID(&b.ID)
	return nil
}

func (i *BundleItem) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}

func (d *Dog) BeforeCreate(*gorm.DB) error {
	assignID(&d.ID)
	return nil
}

func (f *Favorite) BeforeCreate(*gorm.DB) error {
	assignID(&f.ID)
	return nil
}

func (h *HealthRecord) BeforeCreate(*gorm.DB) error {
	assignID(&h.ID)
	return nil
}
