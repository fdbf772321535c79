package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/models"
	"github.com/shiv90154/carrerpath-backend/utils"
	"gorm.io/gorm"
)

type OrderLine struct {
	ItemType string
	ItemID   uuid.UUID
}

type CreateOrderInput struct {
	UserID        uuid.UUID
	Lines         []OrderLine
	PaymentMethod string
}

// NormalizeOrderLines folds the two accepted request shapes into the
// canonical multi-line form: either the legacy single (itemType, itemId)
// pair or an explicit line list, never both and never neither. Everything
// past this point works on lines only.
func NormalizeOrderLines(legacy *OrderLine, lines []OrderLine) ([]OrderLine, error) {
	if legacy != nil && len(lines) > 0 {
		return nil, fmt.Errorf("%w: provide either item_type/item_id or items, not both", ErrValidation)
	}
	if legacy != nil {
		lines = []OrderLine{*legacy}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrValidation)
	}

	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if !models.KnownItemType(line.ItemType) {
			return nil, fmt.Errorf("%w: unknown item type %q", ErrValidation, line.ItemType)
		}
		if line.ItemID == uuid.Nil {
			return nil, fmt.Errorf("%w: missing item id", ErrValidation)
		}
		key := line.ItemType + ":" + line.ItemID.String()
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate line for %s %s", ErrValidation, line.ItemType, line.ItemID)
		}
		seen[key] = true
	}
	return lines, nil
}

// CreateOrder opens a purchase attempt. Free carts are approved on the spot
// (progress included); paid carts start pending and wait for either a proof
// upload plus admin approval or a verified gateway capture. The unique index
// on order_items.active_key rejects the loser of a concurrent double submit.
func CreateOrder(db *gorm.DB, in CreateOrderInput) (*models.Order, error) {
	lines, err := NormalizeOrderLines(nil, in.Lines)
	if err != nil {
		return nil, err
	}

	var amount float64
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		catalogItem, err := FindCatalogItem(db, line.ItemType, line.ItemID)
		if err != nil {
			return nil, err
		}
		if !catalogItem.ItemActive() {
			return nil, fmt.Errorf("%w: %s %s is not available", ErrNotFound, line.ItemType, line.ItemID)
		}
		if catalogItem.ItemPrice() < 0 {
			return nil, fmt.Errorf("%w: negative price on %s", ErrValidation, line.ItemID)
		}
		amount += catalogItem.ItemPrice()

		key := models.OrderItemActiveKey(in.UserID, line.ItemType, line.ItemID)
		items = append(items, models.OrderItem{
			ItemType:  line.ItemType,
			ItemID:    line.ItemID,
			Title:     catalogItem.ItemTitle(),
			Price:     catalogItem.ItemPrice(),
			ActiveKey: &key,
		})
	}

	order := models.Order{
		UserID:        in.UserID,
		Amount:        amount,
		PaymentMethod: in.PaymentMethod,
		Status:        models.OrderStatusPending,
		Items:         items,
	}

	now := time.Now()
	if amount == 0 {
		order.Status = models.OrderStatusApproved
		order.PaymentMethod = models.PaymentMethodFree
		order.ApprovedAt = &now
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		reference, err := utils.GenerateOrderReference(tx)
		if err != nil {
			return err
		}
		order.Reference = reference

		if err := tx.Create(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateOrder
			}
			return err
		}

		if order.Status == models.OrderStatusApproved {
			return initializeProgressForOrder(tx, &order, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SubmitPaymentProof attaches manual-transfer evidence to a pending order.
// It never changes the order status; approval stays an admin decision.
func SubmitPaymentProof(db *gorm.DB, orderID, userID uuid.UUID, proofURL string) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, order.Status)
	}

	now := time.Now()
	order.ProofURL = &proofURL
	order.ProofSubmittedAt = &now
	if err := db.Save(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ApproveOrder moves pending → approved and seeds progress records for any
// course lines, all inside one transaction. The status flip is a guarded
// UPDATE so two concurrent admins (or an admin racing a gateway capture)
// cannot both win. actorID is nil when a verified gateway capture approves.
func ApproveOrder(db *gorm.DB, orderID uuid.UUID, actorID *uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
			Updates(map[string]interface{}{
				"status":      models.OrderStatusApproved,
				"approved_by": actorID,
				"approved_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return transitionFailure(tx, orderID)
		}

		if err := tx.Preload("Items").Preload("User").First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}
		return initializeProgressForOrder(tx, &order, now)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// RejectOrder moves pending → rejected, keeping the record for audit. The
// items' active keys are cleared so the buyer can open a fresh order for the
// same content.
func RejectOrder(db *gorm.DB, orderID uuid.UUID, actorID uuid.UUID, reason string) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
			Updates(map[string]interface{}{
				"status":           models.OrderStatusRejected,
				"rejection_reason": reason,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return transitionFailure(tx, orderID)
		}

		if err := tx.Model(&models.OrderItem{}).
			Where("order_id = ?", orderID).
			Update("active_key", nil).Error; err != nil {
			return err
		}

		return tx.Preload("Items").Preload("User").First(&order, "id = ?", orderID).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// transitionFailure explains a guarded update that matched no row: the order
// either does not exist or already left the pending state.
func transitionFailure(tx *gorm.DB, orderID uuid.UUID) error {
	var existing models.Order
	if err := tx.First(&existing, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return err
	}
	return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, existing.Status)
}

func initializeProgressForOrder(tx *gorm.DB, order *models.Order, purchaseDate time.Time) error {
	for _, item := range order.Items {
		if item.ItemType != models.ItemTypeCourse {
			continue
		}
		if err := InitializeProgress(tx, order.UserID, item.ItemID, purchaseDate); err != nil {
			return err
		}
	}
	return nil
}
