package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow records that one user subscribes to another's recipes, unique per
// (follower, following) pair. Self-follow is rejected before persistence;
// deleting either user removes the row.
type Follow struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	FollowerID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	Follower    User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	FollowingID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follows_pair;index" json:"following_id"`
	Following   User      `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
