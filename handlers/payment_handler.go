package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/database"
	"github.com/shiv90154/carrerpath-backend/models"
	"github.com/shiv90154/carrerpath-backend/notifications"
	"github.com/shiv90154/carrerpath-backend/payments"
	"github.com/shiv90154/carrerpath-backend/services"
	"github.com/shiv90154/carrerpath-backend/websocket"
)

// CreatePayPalOrderHandler opens a gateway order for one of the caller's
// pending PayPal orders.
func CreatePayPalOrderHandler(c *fiber.Ctx) error {
	userID := authedUserID(c)

	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID format"})
	}

	var order models.Order
	err = database.DB.Where("id = ? AND user_id = ? AND status = ? AND payment_method = ?",
		orderID, userID, models.OrderStatusPending, models.PaymentMethodPayPal).First(&order).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pending PayPal order not found for this ID"})
	}

	gatewayOrder, err := payments.CreatePayPalOrder(order.Amount, "USD")
	if err != nil {
		log.Printf("🔥 PayPal CreateOrder API call failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create PayPal order"})
	}

	order.ProviderOrderID = &gatewayOrder.ID
	if err := database.DB.Save(&order).Error; err != nil {
		log.Printf("🔥 Failed to save ProviderOrderID: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update order record"})
	}

	return c.JSON(fiber.Map{"orderID": gatewayOrder.ID})
}

// CapturePayPalOrderHandler verifies a gateway capture and, only on a
// confirmed COMPLETED result, approves the ledger order. An unverifiable
// capture leaves the order pending; the client retries.
func CapturePayPalOrderHandler(c *fiber.Ctx) error {
	userID := authedUserID(c)

	type CaptureRequest struct {
		OrderID string `json:"orderID" validate:"required"`
	}
	var req CaptureRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var order models.Order
	err := database.DB.Where("provider_order_id = ? AND user_id = ?", req.OrderID, userID).First(&order).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found for this gateway reference"})
	}

	capturedOrder, err := payments.CapturePayPalOrder(req.OrderID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	if capturedOrder.Status != "COMPLETED" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Order not completed on PayPal's end"})
	}

	approved, err := services.ApproveOrder(database.DB, order.ID, nil)
	if err != nil {
		return serviceError(c, err)
	}

	approved.ProviderTxnID = &capturedOrder.ID
	if err := database.DB.Save(approved).Error; err != nil {
		log.Printf("🔥 Failed to save ProviderTxnID for order %s: %v", approved.ID, err)
	}

	websocket.NotifyOrderEvent(websocket.EventOrderApproved, approved)
	go notifications.SendEmail(
		approved.User.FullName,
		approved.User.Email,
		"Your Purchase is Confirmed!",
		fmt.Sprintf("<h1>Payment Received</h1><p>Your PayPal payment for order %s went through. All purchased content is now unlocked.</p>", approved.Reference),
	)

	return c.JSON(approved)
}
