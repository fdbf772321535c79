package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/database"
	"github.com/shiv90154/carrerpath-backend/models"
)

type CatalogItemRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// CreateCatalogItem creates a product of the type named in the URL. Price 0
// publishes the item as free content.
func CreateCatalogItem(c *fiber.Ctx) error {
	itemType := c.Params("itemType")
	if !models.KnownItemType(itemType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown item type", "kind": "ValidationError"})
	}

	var req CatalogItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var created models.CatalogItem
	var err error
	switch itemType {
	case models.ItemTypeCourse:
		item := models.Course{Title: req.Title, Description: req.Description, Price: req.Price, IsActive: true}
		err = database.DB.Create(&item).Error
		created = item
	case models.ItemTypeTestSeries:
		item := models.TestSeries{Title: req.Title, Description: req.Description, Price: req.Price, IsActive: true}
		err = database.DB.Create(&item).Error
		created = item
	case models.ItemTypeEbook:
		item := models.Ebook{Title: req.Title, Description: req.Description, Price: req.Price, IsActive: true}
		err = database.DB.Create(&item).Error
		created = item
	case models.ItemTypeStudyMaterial:
		item := models.StudyMaterial{Title: req.Title, Description: req.Description, Price: req.Price, IsActive: true}
		err = database.DB.Create(&item).Error
		created = item
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create item"})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

type CategoryRequest struct {
	ItemType string `json:"item_type" validate:"required"`
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Title    string `json:"title" validate:"required"`
	Position int    `json:"position"`
}

func CreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !models.KnownItemType(req.ItemType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown item type", "kind": "ValidationError"})
	}

	category := models.ContentCategory{
		ItemType: req.ItemType,
		ItemID:   uuid.MustParse(req.ItemID),
		Title:    req.Title,
		Position: req.Position,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create category"})
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

type SubcategoryRequest struct {
	CategoryID string `json:"category_id" validate:"required,uuid"`
	Title      string `json:"title" validate:"required"`
	Position   int    `json:"position"`
}

func CreateSubcategory(c *fiber.Ctx) error {
	var req SubcategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var category models.ContentCategory
	if err := database.DB.First(&category, "id = ?", req.CategoryID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
	}

	subcategory := models.ContentSubcategory{
		CategoryID: category.ID,
		Title:      req.Title,
		Position:   req.Position,
	}
	if err := database.DB.Create(&subcategory).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create subcategory"})
	}
	return c.Status(fiber.StatusCreated).JSON(subcategory)
}

type LeafRequest struct {
	CategoryID    *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
	SubcategoryID *string `json:"subcategory_id,omitempty" validate:"omitempty,uuid"`
	Kind          string  `json:"kind" validate:"required,oneof=video test book"`
	Title         string  `json:"title" validate:"required"`
	Position      int     `json:"position"`
	IsFree        bool    `json:"is_free"`
	IsPreview     bool    `json:"is_preview"`

	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	PlaybackID      *string `json:"playback_id,omitempty"`
	FileURL         *string `json:"file_url,omitempty"`
	MockTestID      *string `json:"mock_test_id,omitempty" validate:"omitempty,uuid"`
	PreviewURL      *string `json:"preview_url,omitempty"`
}

func CreateLeaf(c *fiber.Ctx) error {
	var req LeafRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if (req.CategoryID == nil) == (req.SubcategoryID == nil) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Exactly one of category_id or subcategory_id is required",
			"kind":  "ValidationError",
		})
	}

	leaf := models.ContentLeaf{
		Kind:            req.Kind,
		Title:           req.Title,
		Position:        req.Position,
		IsFree:          req.IsFree,
		IsPreview:       req.IsPreview,
		IsActive:        true,
		DurationMinutes: req.DurationMinutes,
		PlaybackID:      req.PlaybackID,
		FileURL:         req.FileURL,
		PreviewURL:      req.PreviewURL,
	}

	if req.CategoryID != nil {
		id := uuid.MustParse(*req.CategoryID)
		var category models.ContentCategory
		if err := database.DB.First(&category, "id = ?", id).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
		}
		leaf.CategoryID = &id
	} else {
		id := uuid.MustParse(*req.SubcategoryID)
		var subcategory models.ContentSubcategory
		if err := database.DB.First(&subcategory, "id = ?", id).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Subcategory not found"})
		}
		leaf.SubcategoryID = &id
	}

	if req.MockTestID != nil {
		id := uuid.MustParse(*req.MockTestID)
		leaf.MockTestID = &id
	}

	if err := database.DB.Create(&leaf).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create leaf"})
	}
	return c.Status(fiber.StatusCreated).JSON(leaf)
}

// DeactivateLeaf soft-removes a leaf. Existing progress rows keep it; the
// percentage denominator shrinks on the next consumption.
func DeactivateLeaf(c *fiber.Ctx) error {
	leafID := c.Params("leafId")
	result := database.DB.Model(&models.ContentLeaf{}).Where("id = ?", leafID).Update("is_active", false)

	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate leaf"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Leaf not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type QuestionRequest struct {
	QuestionText  string `json:"question_text" validate:"required"`
	QuestionType  string `json:"question_type" validate:"required"`
	Options       string `json:"options"`
	CorrectAnswer string `json:"correct_answer" validate:"required"`
}

func CreateQuestion(c *fiber.Ctx) error {
	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	question := models.Question{
		QuestionText:  req.QuestionText,
		QuestionType:  req.QuestionType,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
	}
	if err := database.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create question"})
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

type MockTestRequest struct {
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description"`
	DurationMinutes int      `json:"duration_minutes" validate:"required,gt=0"`
	QuestionIDs     []string `json:"question_ids" validate:"required,min=1"`
}

func CreateMockTest(c *fiber.Ctx) error {
	var req MockTestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var questions []*models.Question
	if err := database.DB.Where("id IN ?", req.QuestionIDs).Find(&questions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to find questions"})
	}
	if len(questions) != len(req.QuestionIDs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "One or more provided question IDs are invalid"})
	}

	mockTest := models.MockTest{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Questions:       questions,
	}
	if err := database.DB.Create(&mockTest).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create mock test"})
	}
	return c.Status(fiber.StatusCreated).JSON(mockTest)
}
