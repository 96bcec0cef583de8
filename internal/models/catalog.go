package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is immutable reference data loaded from CSV at deploy time.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"size:200;not null;index" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Tag colors are restricted to a fixed palette.
const (
	TagColorBlue   = "#0000FF"
	TagColorRed    = "#FF0000"
	TagColorYellow = "#FFFF00"
	TagColorGreen  = "#008000"
)

// ValidTagColor reports whether c is one of the allowed tag colors.
func ValidTagColor(c string) bool {
	switch c {
	case TagColorBlue, TagColorRed, TagColorYellow, TagColorGreen:
		return true
	}
	return false
}

type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Color string    `gorm:"size:7;not null" json:"color"`
	Slug  string    `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
