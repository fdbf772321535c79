package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseProgress struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID  `gorm:"not null;uniqueIndex:idx_user_course" json:"user_id"`
	CourseID     uuid.UUID  `gorm:"not null;uniqueIndex:idx_user_course" json:"course_id"`
	Progress     int        `gorm:"not null;default:0" json:"progress"`
	PurchaseDate time.Time  `gorm:"not null" json:"purchase_date"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`

	CompletedLeaves []CompletedLeaf `gorm:"foreignkey:ProgressID" json:"completed_leaves"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompletedLeaf is one row per (progress record, leaf); the composite unique
// index makes repeat consumption of the same leaf a no-op.
type CompletedLeaf struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProgressID  uuid.UUID `gorm:"not null;uniqueIndex:idx_progress_leaf" json:"-"`
	LeafID      uuid.UUID `gorm:"not null;uniqueIndex:idx_progress_leaf" json:"leaf_id"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`
}

func (p *CourseProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (c *CompletedLeaf) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
