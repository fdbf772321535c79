package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/models"
)

func TestIsEntitledFollowsOrderStatus(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "status@carrerpath.test")
	admin := createTestUser(t, db, "status-admin@carrerpath.test")
	course := createTestCourse(t, db, "Status Course", 300)

	entitled, err := IsEntitled(db, &user.ID, course)
	if err != nil {
		t.Fatalf("IsEntitled before order: %v", err)
	}
	if entitled {
		t.Fatal("entitled with no order at all")
	}

	order, err := CreateOrder(db, CreateOrderInput{
		UserID:        user.ID,
		Lines:         []OrderLine{{ItemType: models.ItemTypeCourse, ItemID: course.ID}},
		PaymentMethod: models.PaymentMethodManual,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	entitled, err = IsEntitled(db, &user.ID, course)
	if err != nil {
		t.Fatalf("IsEntitled while pending: %v", err)
	}
	if entitled {
		t.Fatal("pending order granted entitlement")
	}

	if _, err := ApproveOrder(db, order.ID, &admin.ID); err != nil {
		t.Fatalf("ApproveOrder: %v", err)
	}
	entitled, err = IsEntitled(db, &user.ID, course)
	if err != nil {
		t.Fatalf("IsEntitled after approval: %v", err)
	}
	if !entitled {
		t.Fatal("approved order did not grant entitlement")
	}
}

func TestIsEntitledRejectedOrderGrantsNothing(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "rejected@carrerpath.test")
	admin := createTestUser(t, db, "rejecting-admin@carrerpath.test")
	course := createTestCourse(t, db, "Rejected Course", 180)

	order, err := CreateOrder(db, CreateOrderInput{
		UserID:        user.ID,
		Lines:         []OrderLine{{ItemType: models.ItemTypeCourse, ItemID: course.ID}},
		PaymentMethod: models.PaymentMethodManual,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if _, err := RejectOrder(db, order.ID, admin.ID, "fake receipt"); err != nil {
		t.Fatalf("RejectOrder: %v", err)
	}

	entitled, err := IsEntitled(db, &user.ID, course)
	if err != nil {
		t.Fatalf("IsEntitled: %v", err)
	}
	if entitled {
		t.Fatal("rejected order granted entitlement")
	}
}

func TestIsEntitledFreeItem(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "free@carrerpath.test")
	course := createTestCourse(t, db, "Open Course", 0)

	// A zero-price item is open to everyone, purchase or not.
	entitled, err := IsEntitled(db, &user.ID, course)
	if err != nil {
		t.Fatalf("IsEntitled: %v", err)
	}
	if !entitled {
		t.Error("signed-in user not entitled to free item")
	}

	entitled, err = IsEntitled(db, nil, course)
	if err != nil {
		t.Fatalf("IsEntitled anonymous: %v", err)
	}
	if !entitled {
		t.Error("anonymous caller not entitled to free item")
	}
}

func TestIsEntitledAnonymousPaidItem(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db, "Paid Course", 250)

	entitled, err := IsEntitled(db, nil, course)
	if err != nil {
		t.Fatalf("IsEntitled: %v", err)
	}
	if entitled {
		t.Fatal("anonymous caller entitled to paid item")
	}
}

func TestIsEntitledScopedToExactItem(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "scoped@carrerpath.test")
	owned := createTestCourse(t, db, "Owned", 100)
	other := createTestCourse(t, db, "Other", 100)

	createApprovedOrder(t, db, user, owned)

	entitled, err := IsEntitled(db, &user.ID, other)
	if err != nil {
		t.Fatalf("IsEntitled: %v", err)
	}
	if entitled {
		t.Fatal("entitlement leaked to an item the user never bought")
	}
}

func TestFindCatalogItemPolymorphic(t *testing.T) {
	db := setupTestDB(t)

	course := createTestCourse(t, db, "Poly Course", 100)
	series := models.TestSeries{Title: "Poly Series", Price: 50, IsActive: true}
	ebook := models.Ebook{Title: "Poly Ebook", Price: 20, IsActive: true}
	material := models.StudyMaterial{Title: "Poly Notes", Price: 10, IsActive: true}
	for _, record := range []interface{}{&series, &ebook, &material} {
		if err := db.Create(record).Error; err != nil {
			t.Fatalf("seed catalog: %v", err)
		}
	}

	cases := []struct {
		itemType string
		itemID   uuid.UUID
		title    string
	}{
		{models.ItemTypeCourse, course.ID, "Poly Course"},
		{models.ItemTypeTestSeries, series.ID, "Poly Series"},
		{models.ItemTypeEbook, ebook.ID, "Poly Ebook"},
		{models.ItemTypeStudyMaterial, material.ID, "Poly Notes"},
	}
	for _, tc := range cases {
		item, err := FindCatalogItem(db, tc.itemType, tc.itemID)
		if err != nil {
			t.Fatalf("FindCatalogItem(%s): %v", tc.itemType, err)
		}
		if item.ItemType() != tc.itemType {
			t.Errorf("ItemType() = %q, want %q", item.ItemType(), tc.itemType)
		}
		if item.ItemTitle() != tc.title {
			t.Errorf("ItemTitle() = %q, want %q", item.ItemTitle(), tc.title)
		}
		if item.ItemID() != tc.itemID {
			t.Errorf("ItemID() = %s, want %s", item.ItemID(), tc.itemID)
		}
	}

	if _, err := FindCatalogItem(db, models.ItemTypeCourse, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing item err = %v, want ErrNotFound", err)
	}
	if _, err := FindCatalogItem(db, "seminar", course.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown type err = %v, want ErrValidation", err)
	}
}

func TestEntitlementAcrossItemTypes(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "series-buyer@carrerpath.test")
	series := models.TestSeries{Title: "Mains Series", Price: 150, IsActive: true}
	if err := db.Create(&series).Error; err != nil {
		t.Fatalf("create series: %v", err)
	}

	createApprovedOrder(t, db, user, series)

	entitled, err := IsEntitled(db, &user.ID, series)
	if err != nil {
		t.Fatalf("IsEntitled: %v", err)
	}
	if !entitled {
		t.Fatal("approved test-series order did not grant entitlement")
	}
}
