package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/models"
	"gorm.io/gorm"
)

// FindCatalogItem loads a purchasable product by (type, id) and returns it
// behind the capability interface, so callers never touch the concrete type.
func FindCatalogItem(db *gorm.DB, itemType string, itemID uuid.UUID) (models.CatalogItem, error) {
	var (
		item models.CatalogItem
		err  error
	)

	switch itemType {
	case models.ItemTypeCourse:
		var course models.Course
		err = db.First(&course, "id = ?", itemID).Error
		item = course
	case models.ItemTypeTestSeries:
		var series models.TestSeries
		err = db.First(&series, "id = ?", itemID).Error
		item = series
	case models.ItemTypeEbook:
		var ebook models.Ebook
		err = db.First(&ebook, "id = ?", itemID).Error
		item = ebook
	case models.ItemTypeStudyMaterial:
		var material models.StudyMaterial
		err = db.First(&material, "id = ?", itemID).Error
		item = material
	default:
		return nil, fmt.Errorf("%w: unknown item type %q", ErrValidation, itemType)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, itemType, itemID)
		}
		return nil, err
	}
	return item, nil
}

// IsEntitled is the single source of truth for paid access. It is true iff
// an approved order line exists for (user, item), or the item itself is free.
// userID is nil for anonymous callers, who are never entitled to paid items.
func IsEntitled(db *gorm.DB, userID *uuid.UUID, item models.CatalogItem) (bool, error) {
	if item.ItemPrice() == 0 && item.ItemActive() {
		return true, nil
	}
	if userID == nil {
		return false, nil
	}
	return HasApprovedOrder(db, *userID, item.ItemType(), item.ItemID())
}

// HasApprovedOrder consults the order ledger directly. Status can flip under
// admin action at any time, so the answer is never cached.
func HasApprovedOrder(db *gorm.DB, userID uuid.UUID, itemType string, itemID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.item_type = ? AND order_items.item_id = ?",
			userID, models.OrderStatusApproved, itemType, itemID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
