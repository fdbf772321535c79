package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/models"
	"gorm.io/gorm"
)

// InitializeProgress creates the per-user progress record for a course.
// Idempotent: an existing record is never reset, and losing a create race
// counts as success.
func InitializeProgress(tx *gorm.DB, userID, courseID uuid.UUID, purchaseDate time.Time) error {
	var existing models.CourseProgress
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	record := models.CourseProgress{
		UserID:       userID,
		CourseID:     courseID,
		Progress:     0,
		PurchaseDate: purchaseDate,
	}
	if err := tx.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

// RecordConsumption marks a leaf completed for a user and recomputes the
// percentage. Entitlement is re-checked inside the same transaction that
// records the leaf, so a consumption racing an admin decision cannot act on
// a stale verdict. Completing the same leaf twice is a no-op.
func RecordConsumption(db *gorm.DB, userID, courseID, leafID uuid.UUID) (*models.CourseProgress, error) {
	course, err := FindCatalogItem(db, models.ItemTypeCourse, courseID)
	if err != nil {
		return nil, err
	}

	var leaf models.ContentLeaf
	if err := db.First(&leaf, "id = ?", leafID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: leaf %s", ErrNotFound, leafID)
		}
		return nil, err
	}
	if !leaf.IsActive {
		return nil, fmt.Errorf("%w: leaf %s is no longer available", ErrNotFound, leafID)
	}

	belongs, err := LeafBelongsToItem(db, leaf, models.ItemTypeCourse, courseID)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, fmt.Errorf("%w: leaf %s does not belong to course %s", ErrNotFound, leafID, courseID)
	}

	var progress models.CourseProgress
	err = db.Transaction(func(tx *gorm.DB) error {
		entitled, err := IsEntitled(tx, &userID, course)
		if err != nil {
			return err
		}
		if !entitled && !leaf.IsFree && !leaf.IsPreview {
			return fmt.Errorf("%w: course %s", ErrNotEntitled, courseID)
		}

		now := time.Now()

		// Free/preview leaves can be consumed before any purchase, so the
		// record may not exist yet.
		err = tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = models.CourseProgress{
				UserID:       userID,
				CourseID:     courseID,
				PurchaseDate: now,
			}
			if err := tx.Create(&progress).Error; err != nil {
				if !errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
				if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error; err != nil {
					return err
				}
			}
		} else if err != nil {
			return err
		}

		completed := models.CompletedLeaf{
			ProgressID:  progress.ID,
			LeafID:      leafID,
			CompletedAt: now,
		}
		if err := tx.Create(&completed).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}

		var done int64
		if err := tx.Model(&models.CompletedLeaf{}).Where("progress_id = ?", progress.ID).Count(&done).Error; err != nil {
			return err
		}

		// The denominator is counted at call time so catalog edits after the
		// purchase shift future percentages instead of corrupting past ones.
		total, err := CountActiveLeaves(tx, models.ItemTypeCourse, courseID)
		if err != nil {
			return err
		}
		if total > 0 {
			pct := int(math.Round(float64(done) * 100 / float64(total)))
			if pct > 100 {
				pct = 100
			}
			if pct < 0 {
				pct = 0
			}
			progress.Progress = pct
		}

		progress.LastAccessed = &now
		return tx.Save(&progress).Error
	})
	if err != nil {
		return nil, err
	}

	if err := db.Preload("CompletedLeaves").First(&progress, "id = ?", progress.ID).Error; err != nil {
		return nil, err
	}

	if progress.Progress >= 100 {
		go CheckAndGenerateCertificate(db, userID, courseID, course.ItemTitle())
	}

	return &progress, nil
}

// GetProgress returns a user's record for one course, completed leaves
// included.
func GetProgress(db *gorm.DB, userID, courseID uuid.UUID) (*models.CourseProgress, error) {
	var progress models.CourseProgress
	err := db.Preload("CompletedLeaves").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no progress for course %s", ErrNotFound, courseID)
		}
		return nil, err
	}
	return &progress, nil
}

// CountActiveLeaves counts the live leaves across an item's whole tree.
func CountActiveLeaves(tx *gorm.DB, itemType string, itemID uuid.UUID) (int64, error) {
	var categoryIDs []uuid.UUID
	err := tx.Model(&models.ContentCategory{}).
		Where("item_type = ? AND item_id = ?", itemType, itemID).
		Pluck("id", &categoryIDs).Error
	if err != nil {
		return 0, err
	}
	if len(categoryIDs) == 0 {
		return 0, nil
	}

	var subcategoryIDs []uuid.UUID
	err = tx.Model(&models.ContentSubcategory{}).
		Where("category_id IN ?", categoryIDs).
		Pluck("id", &subcategoryIDs).Error
	if err != nil {
		return 0, err
	}

	query := tx.Model(&models.ContentLeaf{}).Where("is_active = ?", true)
	if len(subcategoryIDs) > 0 {
		query = query.Where("category_id IN ? OR subcategory_id IN ?", categoryIDs, subcategoryIDs)
	} else {
		query = query.Where("category_id IN ?", categoryIDs)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// LeafBelongsToItem walks a leaf up to its owning catalog item. Dangling
// parents resolve to false rather than an error.
func LeafBelongsToItem(db *gorm.DB, leaf models.ContentLeaf, itemType string, itemID uuid.UUID) (bool, error) {
	categoryID := leaf.CategoryID
	if categoryID == nil && leaf.SubcategoryID != nil {
		var sub models.ContentSubcategory
		err := db.First(&sub, "id = ?", *leaf.SubcategoryID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		categoryID = &sub.CategoryID
	}
	if categoryID == nil {
		return false, nil
	}

	var category models.ContentCategory
	err := db.First(&category, "id = ?", *categoryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return category.ItemType == itemType && category.ItemID == itemID, nil
}
