package jobs

import (
	"fmt"
	"log"
	"time"

	config "github.com/shiv90154/carrerpath-backend/configs"
	"github.com/shiv90154/carrerpath-backend/database"
	"github.com/shiv90154/carrerpath-backend/models"
	"github.com/shiv90154/carrerpath-backend/notifications"
)

// RemindStalePendingOrders nudges the admin about orders whose payment proof
// has been waiting for review for over a day. The job runs hourly and the
// one-hour window keeps each order to a single reminder.
func RemindStalePendingOrders() {
	log.Println("Running job: RemindStalePendingOrders...")

	now := time.Now()
	upperBound := now.Add(-24 * time.Hour)
	lowerBound := now.Add(-25 * time.Hour)

	var staleOrders []models.Order

	err := database.DB.
		Preload("User").
		Where("status = ? AND proof_submitted_at BETWEEN ? AND ?", models.OrderStatusPending, lowerBound, upperBound).
		Find(&staleOrders).Error
	if err != nil {
		log.Printf("Error checking for stale pending orders: %v", err)
		return
	}

	if len(staleOrders) == 0 {
		return
	}

	adminEmail := config.Config("ADMIN_EMAIL")
	for _, order := range staleOrders {
		log.Printf("Sending stale-order reminder for order ID: %s", order.ID)

		emailSubject := "Payment Proof Awaiting Review"
		emailBody := fmt.Sprintf(
			"<h1>Pending Order Reminder</h1><p>Order %s from %s (%.2f) has had its payment proof waiting for review since %s.</p>",
			order.Reference,
			order.User.Email,
			order.Amount,
			order.ProofSubmittedAt.Format(time.RFC1123),
		)

		go notifications.SendEmail("Admin", adminEmail, emailSubject, emailBody)
	}
}
