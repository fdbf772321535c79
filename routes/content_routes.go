package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shiv90154/carrerpath-backend/handlers"
	"github.com/shiv90154/carrerpath-backend/middleware"
)

func ContentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Browsing is open to anonymous callers; the tree comes back limited.
	content := api.Group("/content", middleware.OptionalAuth())
	content.Get("/:itemType/:itemId", handlers.GetContentTree)
	content.Get("/:itemType/:itemId/leaves/:leafId", handlers.GetLeafContent)

	courses := api.Group("/courses", middleware.Protected())
	courses.Post("/:courseId/consume", handlers.RecordConsumption)
	courses.Get("/:courseId/progress", handlers.GetMyCourseProgress)
}
