package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MockTest is the protected payload behind a test leaf: the question set
// delivered once the entitlement check passes.
type MockTest struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`

	Questions []*Question `gorm:"many2many:mock_test_questions;" json:"questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Question struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuestionText  string    `gorm:"type:text;not null" json:"question_text"`
	QuestionType  string    `gorm:"size:50;not null;default:'multiple_choice'" json:"question_type"`
	Options       string    `gorm:"type:text" json:"options"`
	CorrectAnswer string    `gorm:"type:text;not null" json:"-"`
}

func (m *MockTest) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
