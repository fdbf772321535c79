package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	config "github.com/shiv90154/carrerpath-backend/configs"
	"github.com/shiv90154/carrerpath-backend/database"
	"github.com/shiv90154/carrerpath-backend/models"
	"github.com/shiv90154/carrerpath-backend/services"
	"github.com/shiv90154/carrerpath-backend/websocket"
)

type OrderLineRequest struct {
	ItemType string `json:"item_type" validate:"required"`
	ItemID   string `json:"item_id" validate:"required,uuid"`
}

// CreateOrderRequest accepts both the legacy single-item shape
// (item_type/item_id at the top level) and the multi-item shape (items).
type CreateOrderRequest struct {
	ItemType      string             `json:"item_type,omitempty"`
	ItemID        string             `json:"item_id,omitempty"`
	Items         []OrderLineRequest `json:"items,omitempty" validate:"omitempty,dive"`
	PaymentMethod string             `json:"payment_method" validate:"required,oneof=manual_transfer paypal"`
}

func CreateOrder(c *fiber.Ctx) error {
	userID := authedUserID(c)

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var legacy *services.OrderLine
	if req.ItemType != "" || req.ItemID != "" {
		itemID, err := uuid.Parse(req.ItemID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID format"})
		}
		legacy = &services.OrderLine{ItemType: req.ItemType, ItemID: itemID}
	}

	lines := make([]services.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		itemID, err := uuid.Parse(item.ItemID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID format"})
		}
		lines = append(lines, services.OrderLine{ItemType: item.ItemType, ItemID: itemID})
	}

	normalized, err := services.NormalizeOrderLines(legacy, lines)
	if err != nil {
		return serviceError(c, err)
	}

	order, err := services.CreateOrder(database.DB, services.CreateOrderInput{
		UserID:        userID,
		Lines:         normalized,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return serviceError(c, err)
	}

	websocket.NotifyOrderEvent(websocket.EventOrderCreated, order)

	response := fiber.Map{
		"order_id":  order.ID,
		"reference": order.Reference,
		"status":    order.Status,
		"amount":    order.Amount,
		"items":     order.Items,
	}
	if order.Status == models.OrderStatusPending {
		response["payment_instructions"] = paymentInstructions(order)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// paymentInstructions are opaque to the engine: bank details come straight
// from configuration, the PayPal flow points at the gateway endpoints.
func paymentInstructions(order *models.Order) fiber.Map {
	if order.PaymentMethod == models.PaymentMethodPayPal {
		return fiber.Map{
			"method":       models.PaymentMethodPayPal,
			"create_order": "/api/v1/payments/paypal/create-order/" + order.ID.String(),
			"capture":      "/api/v1/payments/paypal/capture-order",
		}
	}
	return fiber.Map{
		"method":         models.PaymentMethodManual,
		"bank_name":      config.Config("PAYMENT_BANK_NAME"),
		"account_name":   config.Config("PAYMENT_ACCOUNT_NAME"),
		"account_number": config.Config("PAYMENT_ACCOUNT_NUMBER"),
		"upi_id":         config.Config("PAYMENT_UPI_ID"),
		"note":           "Quote reference " + order.Reference + " with your transfer, then upload the payment screenshot.",
	}
}

type SubmitProofRequest struct {
	ProofURL string `json:"proof_url" validate:"required,url"`
}

func SubmitPaymentProof(c *fiber.Ctx) error {
	userID := authedUserID(c)

	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID format"})
	}

	var req SubmitProofRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	order, err := services.SubmitPaymentProof(database.DB, orderID, userID, req.ProofURL)
	if err != nil {
		return serviceError(c, err)
	}

	websocket.NotifyOrderEvent(websocket.EventProofSubmitted, order)

	return c.JSON(fiber.Map{"status": order.Status, "proof_submitted_at": order.ProofSubmittedAt})
}

func ListMyOrders(c *fiber.Ctx) error {
	userID := authedUserID(c)

	var orders []models.Order
	if err := database.DB.Preload("Items").Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch orders"})
	}
	return c.JSON(orders)
}

func GetMyOrder(c *fiber.Ctx) error {
	userID := authedUserID(c)

	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID format"})
	}

	var order models.Order
	if err := database.DB.Preload("Items").First(&order, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}
	return c.JSON(order)
}
