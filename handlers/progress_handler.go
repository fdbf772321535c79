package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/database"
	"github.com/shiv90154/carrerpath-backend/services"
)

type RecordConsumptionRequest struct {
	LeafID string `json:"leaf_id" validate:"required,uuid"`
}

// RecordConsumption marks a course leaf as consumed by the caller and
// returns the recomputed completion percentage.
func RecordConsumption(c *fiber.Ctx) error {
	userID := authedUserID(c)

	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID format"})
	}

	var req RecordConsumptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	leafID := uuid.MustParse(req.LeafID)

	progress, err := services.RecordConsumption(database.DB, userID, courseID, leafID)
	if err != nil {
		return serviceError(c, err)
	}

	completedIDs := make([]uuid.UUID, 0, len(progress.CompletedLeaves))
	for _, leaf := range progress.CompletedLeaves {
		completedIDs = append(completedIDs, leaf.LeafID)
	}

	return c.JSON(fiber.Map{
		"course_id":        progress.CourseID,
		"progress":         progress.Progress,
		"completed_leaves": completedIDs,
		"last_accessed":    progress.LastAccessed,
	})
}

func GetMyCourseProgress(c *fiber.Ctx) error {
	userID := authedUserID(c)

	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID format"})
	}

	progress, err := services.GetProgress(database.DB, userID, courseID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(progress)
}
