package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is immutable reference data attached to recipes.
type Tag struct {
	ID   uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
