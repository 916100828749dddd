package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is unique on the (name, measurement unit) pair; the same name
// may appear with several units.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name            string    `gorm:"size:100;not null;uniqueIndex:idx_ingredients_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"size:20;not null;uniqueIndex:idx_ingredients_name_unit" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
