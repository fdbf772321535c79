package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shiv90154/carrerpath-backend/handlers"
	"github.com/shiv90154/carrerpath-backend/middleware"
)

func OrderRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	orders := api.Group("/orders", middleware.Protected())
	orders.Post("", handlers.CreateOrder)
	orders.Get("", handlers.ListMyOrders)
	orders.Get("/:orderId", handlers.GetMyOrder)
	orders.Post("/:orderId/proof", handlers.SubmitPaymentProof)
}
