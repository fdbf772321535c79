package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LeafKindVideo = "video"
	LeafKindTest  = "test"
	LeafKindBook  = "book"
)

// ContentCategory is the top level of a catalog item's content tree.
// Ownership is polymorphic: (ItemType, ItemID) points at one of the four
// purchasable product tables.
type ContentCategory struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ItemType string    `gorm:"size:20;not null;index:idx_category_owner" json:"item_type"`
	ItemID   uuid.UUID `gorm:"not null;index:idx_category_owner" json:"item_id"`
	Title    string    `gorm:"size:255;not null" json:"title"`
	Position int       `gorm:"not null;default:0" json:"position"`

	Subcategories []ContentSubcategory `gorm:"foreignkey:CategoryID" json:"subcategories"`
	Leaves        []ContentLeaf        `gorm:"foreignkey:CategoryID" json:"leaves"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ContentSubcategory struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID uuid.UUID `gorm:"not null;index" json:"category_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Position   int       `gorm:"not null;default:0" json:"position"`

	Leaves []ContentLeaf `gorm:"foreignkey:SubcategoryID" json:"leaves"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentLeaf is the smallest sellable unit: a video lecture, a test or a
// book/PDF. Exactly one of CategoryID/SubcategoryID is set. The payload
// columns (PlaybackID, FileURL, MockTestID) must never reach a caller who is
// not entitled to the owning item unless the leaf itself is free; a preview
// leaf only ever exposes PreviewURL.
type ContentLeaf struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID    *uuid.UUID `gorm:"index" json:"category_id,omitempty"`
	SubcategoryID *uuid.UUID `gorm:"index" json:"subcategory_id,omitempty"`
	Kind          string     `gorm:"size:10;not null" json:"kind"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Position      int        `gorm:"not null;default:0" json:"position"`
	IsFree        bool       `gorm:"default:false" json:"is_free"`
	IsPreview     bool       `gorm:"default:false" json:"is_preview"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`

	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	PlaybackID      *string    `gorm:"size:255" json:"-"`
	FileURL         *string    `gorm:"type:text" json:"-"`
	MockTestID      *uuid.UUID `json:"-"`
	PreviewURL      *string    `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *ContentCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (s *ContentSubcategory) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (l *ContentLeaf) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
