package routes

import (
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/shiv90154/carrerpath-backend/handlers"
	"github.com/shiv90154/carrerpath-backend/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	orders := admin.Group("/orders")
	orders.Get("", handlers.AdminListOrders)
	orders.Get("/:orderId", handlers.AdminGetOrder)
	orders.Post("/:orderId/approve", handlers.ApproveOrder)
	orders.Post("/:orderId/reject", handlers.RejectOrder)

	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)

	catalog := admin.Group("/catalog")
	catalog.Post("/:itemType", handlers.CreateCatalogItem)
	catalog.Post("/categories", handlers.CreateCategory)
	catalog.Post("/subcategories", handlers.CreateSubcategory)
	catalog.Post("/leaves", handlers.CreateLeaf)
	catalog.Delete("/leaves/:leafId", handlers.DeactivateLeaf)

	admin.Post("/questions", handlers.CreateQuestion)
	admin.Post("/mock-tests", handlers.CreateMockTest)

	admin.Use("/orders-feed", func(c *fiber.Ctx) error {
		if !websocketcontrib.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	admin.Get("/orders-feed", websocketcontrib.New(handlers.ServeAdminOrderFeed))
}
