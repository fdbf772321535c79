package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A pooled second connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access connection pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.TestSeries{},
		&models.Ebook{},
		&models.StudyMaterial{},
		&models.ContentCategory{},
		&models.ContentSubcategory{},
		&models.ContentLeaf{},
		&models.MockTest{},
		&models.Question{},
		&models.Order{},
		&models.OrderItem{},
		&models.CourseProgress{},
		&models.CompletedLeaf{},
		&models.Certificate{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{
		FullName: "Test Student",
		Email:    email,
		Password: "hashed",
		Role:     "student",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestCourse(t *testing.T, db *gorm.DB, title string, price float64) models.Course {
	t.Helper()
	course := models.Course{Title: title, Price: price, IsActive: true}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("failed to create test course: %v", err)
	}
	return course
}

func addTestCategory(t *testing.T, db *gorm.DB, itemType string, itemID uuid.UUID, title string) models.ContentCategory {
	t.Helper()
	category := models.ContentCategory{ItemType: itemType, ItemID: itemID, Title: title}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

func addTestLeaf(t *testing.T, db *gorm.DB, categoryID uuid.UUID, title string, free, preview bool) models.ContentLeaf {
	t.Helper()
	playback := "pb-" + uuid.NewString()
	leaf := models.ContentLeaf{
		CategoryID: &categoryID,
		Kind:       models.LeafKindVideo,
		Title:      title,
		IsFree:     free,
		IsPreview:  preview,
		IsActive:   true,
		PlaybackID: &playback,
	}
	if err := db.Create(&leaf).Error; err != nil {
		t.Fatalf("failed to create test leaf: %v", err)
	}
	return leaf
}

// createApprovedOrder runs a purchase through the real ledger path.
func createApprovedOrder(t *testing.T, db *gorm.DB, user models.User, item models.CatalogItem) *models.Order {
	t.Helper()
	order, err := CreateOrder(db, CreateOrderInput{
		UserID:        user.ID,
		Lines:         []OrderLine{{ItemType: item.ItemType(), ItemID: item.ItemID()}},
		PaymentMethod: models.PaymentMethodManual,
	})
	if err != nil {
		t.Fatalf("failed to create order: %v", err)
	}
	if order.Status == models.OrderStatusApproved {
		return order
	}

	admin := createTestUser(t, db, "admin-"+uuid.NewString()+"@carrerpath.test")
	approved, err := ApproveOrder(db, order.ID, &admin.ID)
	if err != nil {
		t.Fatalf("failed to approve order: %v", err)
	}
	return approved
}
