package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/database"
	"github.com/shiv90154/carrerpath-backend/models"
	"github.com/shiv90154/carrerpath-backend/services"
)

// GetContentTree returns an item's tree shaped by the caller's entitlement.
// Anonymous callers are served the limited view.
func GetContentTree(c *fiber.Ctx) error {
	itemType := c.Params("itemType")
	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID format"})
	}

	item, err := services.FindCatalogItem(database.DB, itemType, itemID)
	if err != nil {
		return serviceError(c, err)
	}
	if !item.ItemActive() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item is not available", "kind": "NotFound"})
	}

	entitled, err := services.IsEntitled(database.DB, optionalUserID(c), item)
	if err != nil {
		return serviceError(c, err)
	}

	categories, err := services.LoadContentTree(database.DB, itemType, itemID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load content tree"})
	}

	tree := services.FilterTree(categories, entitled)

	return c.JSON(fiber.Map{
		"item": fiber.Map{
			"id":    item.ItemID(),
			"type":  item.ItemType(),
			"title": item.ItemTitle(),
			"price": item.ItemPrice(),
		},
		"access_type":  tree.AccessType,
		"total_locked": tree.TotalLocked,
		"categories":   tree.Categories,
	})
}

// GetLeafContent serves a single leaf's protected payload: the playback id
// for a video, the file pointer for a book, the question set for a test.
// This is the only content-serving path and it always goes through the
// entitlement resolver.
func GetLeafContent(c *fiber.Ctx) error {
	itemType := c.Params("itemType")
	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID format"})
	}
	leafID, err := uuid.Parse(c.Params("leafId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leaf ID format"})
	}

	item, err := services.FindCatalogItem(database.DB, itemType, itemID)
	if err != nil {
		return serviceError(c, err)
	}

	var leaf models.ContentLeaf
	if err := database.DB.First(&leaf, "id = ?", leafID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Content not found", "kind": "NotFound"})
	}
	if !leaf.IsActive {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Content is no longer available", "kind": "NotFound"})
	}

	belongs, err := services.LeafBelongsToItem(database.DB, leaf, itemType, itemID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to resolve content"})
	}
	if !belongs {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Content not found", "kind": "NotFound"})
	}

	entitled, err := services.IsEntitled(database.DB, optionalUserID(c), item)
	if err != nil {
		return serviceError(c, err)
	}

	if !entitled && !leaf.IsFree {
		if leaf.IsPreview {
			return c.JSON(fiber.Map{
				"leaf_id":     leaf.ID,
				"kind":        leaf.Kind,
				"access_type": services.AccessTypeLimited,
				"preview_url": leaf.PreviewURL,
			})
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Purchase required to access this content",
			"kind":  "NotEntitled",
		})
	}

	payload := fiber.Map{
		"leaf_id":     leaf.ID,
		"kind":        leaf.Kind,
		"title":       leaf.Title,
		"access_type": services.AccessTypeFull,
	}

	switch leaf.Kind {
	case models.LeafKindVideo:
		payload["playback_id"] = leaf.PlaybackID
	case models.LeafKindBook:
		payload["file_url"] = leaf.FileURL
	case models.LeafKindTest:
		if leaf.MockTestID == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Test is not attached yet", "kind": "NotFound"})
		}
		var test models.MockTest
		if err := database.DB.Preload("Questions").First(&test, "id = ?", *leaf.MockTestID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Test not found", "kind": "NotFound"})
		}
		payload["test"] = test
	}

	return c.JSON(payload)
}
