package utils

import (
	"math/rand"
	"time"

	"github.com/shiv90154/carrerpath-backend/models"
	"gorm.io/gorm"
)

const referenceSuffixLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrderReference produces the short code printed on payment
// instructions and proof screenshots, retrying until it is unused.
func GenerateOrderReference(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, referenceSuffixLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		reference := "CP-" + string(b)

		var order models.Order
		err := tx.Where("reference = ?", reference).First(&order).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return reference, nil
			}
			return "", err
		}
	}
}
