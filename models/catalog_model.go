package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ItemTypeCourse        = "course"
	ItemTypeTestSeries    = "test_series"
	ItemTypeEbook         = "ebook"
	ItemTypeStudyMaterial = "study_material"
)

// CatalogItem is the one capability surface the purchase and entitlement
// paths see. The resolver never branches on the concrete product type.
type CatalogItem interface {
	ItemType() string
	ItemID() uuid.UUID
	ItemTitle() string
	ItemPrice() float64
	ItemActive() bool
}

func KnownItemType(itemType string) bool {
	switch itemType {
	case ItemTypeCourse, ItemTypeTestSeries, ItemTypeEbook, ItemTypeStudyMaterial:
		return true
	}
	return false
}

type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Price        float64   `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	ThumbnailURL *string   `gorm:"size:255" json:"thumbnail_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TestSeries struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Ebook struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Author      string    `gorm:"size:255" json:"author"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StudyMaterial struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Course) ItemType() string     { return ItemTypeCourse }
func (c Course) ItemID() uuid.UUID    { return c.ID }
func (c Course) ItemTitle() string    { return c.Title }
func (c Course) ItemPrice() float64   { return c.Price }
func (c Course) ItemActive() bool     { return c.IsActive }

func (t TestSeries) ItemType() string   { return ItemTypeTestSeries }
func (t TestSeries) ItemID() uuid.UUID  { return t.ID }
func (t TestSeries) ItemTitle() string  { return t.Title }
func (t TestSeries) ItemPrice() float64 { return t.Price }
func (t TestSeries) ItemActive() bool   { return t.IsActive }

func (e Ebook) ItemType() string   { return ItemTypeEbook }
func (e Ebook) ItemID() uuid.UUID  { return e.ID }
func (e Ebook) ItemTitle() string  { return e.Title }
func (e Ebook) ItemPrice() float64 { return e.Price }
func (e Ebook) ItemActive() bool   { return e.IsActive }

func (s StudyMaterial) ItemType() string   { return ItemTypeStudyMaterial }
func (s StudyMaterial) ItemID() uuid.UUID  { return s.ID }
func (s StudyMaterial) ItemTitle() string  { return s.Title }
func (s StudyMaterial) ItemPrice() float64 { return s.Price }
func (s StudyMaterial) ItemActive() bool   { return s.IsActive }

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (t *TestSeries) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (e *Ebook) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (s *StudyMaterial) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
