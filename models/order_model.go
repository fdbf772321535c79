package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusPending  = "pending"
	OrderStatusApproved = "approved"
	OrderStatusRejected = "rejected"
)

const (
	PaymentMethodManual = "manual_transfer"
	PaymentMethodPayPal = "paypal"
	PaymentMethodFree   = "free"
)

type Order struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID `gorm:"not null;index" json:"user_id"`
	Reference     string    `gorm:"size:20;not null;unique" json:"reference"`
	Amount        float64   `gorm:"type:numeric(10,2);not null" json:"amount"`
	PaymentMethod string    `gorm:"size:30;not null" json:"payment_method"`
	Status        string    `gorm:"size:20;not null;default:'pending';index" json:"status"`

	ProofURL         *string    `gorm:"type:text" json:"proof_url,omitempty"`
	ProofSubmittedAt *time.Time `json:"proof_submitted_at,omitempty"`

	ProviderOrderID *string `gorm:"size:255;unique" json:"provider_order_id,omitempty"`
	ProviderTxnID   *string `gorm:"size:255;unique" json:"provider_txn_id,omitempty"`

	ApprovedBy      *uuid.UUID `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`

	User  User        `gorm:"foreignkey:UserID" json:"-"`
	Items []OrderItem `gorm:"foreignkey:OrderID" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is one purchased line. ActiveKey is "<user>:<type>:<id>" while
// the owning order is pending or approved and NULL once it is rejected; the
// unique index on it is what makes the one-live-order-per-item rule hold
// under concurrent double submission.
type OrderItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID  uuid.UUID `gorm:"not null;index" json:"order_id"`
	ItemType string    `gorm:"size:20;not null;index:idx_order_item_target" json:"item_type"`
	ItemID   uuid.UUID `gorm:"not null;index:idx_order_item_target" json:"item_id"`
	Title    string    `gorm:"size:255;not null" json:"title"`
	Price    float64   `gorm:"type:numeric(10,2);not null" json:"price"`

	ActiveKey *string `gorm:"size:120;uniqueIndex" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func OrderItemActiveKey(userID uuid.UUID, itemType string, itemID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", userID, itemType, itemID)
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
