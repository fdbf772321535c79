package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shiv90154/carrerpath-backend/handlers"
	"github.com/shiv90154/carrerpath-backend/middleware"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	paypal := api.Group("/payments/paypal", middleware.Protected())
	paypal.Post("/create-order/:orderId", handlers.CreatePayPalOrderHandler)
	paypal.Post("/capture-order", handlers.CapturePayPalOrderHandler)
}
