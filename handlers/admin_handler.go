package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/database"
	"github.com/shiv90154/carrerpath-backend/models"
	"github.com/shiv90154/carrerpath-backend/notifications"
	"github.com/shiv90154/carrerpath-backend/services"
	"github.com/shiv90154/carrerpath-backend/websocket"
)

func AdminListOrders(c *fiber.Ctx) error {
	query := database.DB.Preload("Items").Preload("User").Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch orders"})
	}
	return c.JSON(orders)
}

func AdminGetOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID format"})
	}

	var order models.Order
	if err := database.DB.Preload("Items").Preload("User").First(&order, "id = ?", orderID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}
	return c.JSON(order)
}

func ApproveOrder(c *fiber.Ctx) error {
	actorID := authedUserID(c)

	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID format"})
	}

	order, err := services.ApproveOrder(database.DB, orderID, &actorID)
	if err != nil {
		return serviceError(c, err)
	}

	websocket.NotifyOrderEvent(websocket.EventOrderApproved, order)
	go notifications.SendEmail(
		order.User.FullName,
		order.User.Email,
		"Your Purchase is Confirmed!",
		fmt.Sprintf("<h1>Payment Approved</h1><p>Your payment for order %s has been verified. All purchased content is now unlocked in your library.</p>", order.Reference),
	)

	return c.JSON(order)
}

type RejectOrderRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

func RejectOrder(c *fiber.Ctx) error {
	actorID := authedUserID(c)

	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID format"})
	}

	var req RejectOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	order, err := services.RejectOrder(database.DB, orderID, actorID, req.Reason)
	if err != nil {
		return serviceError(c, err)
	}

	websocket.NotifyOrderEvent(websocket.EventOrderRejected, order)
	go notifications.SendEmail(
		order.User.FullName,
		order.User.Email,
		"Payment Could Not Be Verified",
		fmt.Sprintf("<h1>Order Rejected</h1><p>We could not verify the payment for order %s.</p><p><b>Reason:</b> %s</p><p>You can place a new order and submit fresh proof at any time.</p>", order.Reference, req.Reason),
	)

	return c.JSON(order)
}

func GetDashboardAnalytics(c *fiber.Ctx) error {
	var pendingCount, approvedCount, rejectedCount int64
	database.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&pendingCount)
	database.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusApproved).Count(&approvedCount)
	database.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusRejected).Count(&rejectedCount)

	var revenue float64
	database.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusApproved).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenue)

	var studentCount int64
	database.DB.Model(&models.User{}).Where("role = ?", "student").Count(&studentCount)

	var recentOrders []models.Order
	database.DB.Preload("Items").Order("created_at desc").Limit(10).Find(&recentOrders)

	return c.JSON(fiber.Map{
		"orders": fiber.Map{
			"pending":  pendingCount,
			"approved": approvedCount,
			"rejected": rejectedCount,
		},
		"total_revenue": revenue,
		"students":      studentCount,
		"recent_orders": recentOrders,
	})
}
