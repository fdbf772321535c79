package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/models"
)

func TestCreateOrderFreeCartAutoApproves(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "student@carrerpath.test")
	course := createTestCourse(t, db, "Free Starter Course", 0)

	order, err := CreateOrder(db, CreateOrderInput{
		UserID:        user.ID,
		Lines:         []OrderLine{{ItemType: models.ItemTypeCourse, ItemID: course.ID}},
		PaymentMethod: models.PaymentMethodManual,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Status != models.OrderStatusApproved {
		t.Fatalf("free order status = %q, want approved", order.Status)
	}
	if order.PaymentMethod != models.PaymentMethodFree {
		t.Errorf("payment method = %q, want free", order.PaymentMethod)
	}
	if order.ApprovedAt == nil {
		t.Error("free order has no approved_at timestamp")
	}
	if order.Amount != 0 {
		t.Errorf("amount = %v, want 0", order.Amount)
	}

	entitled, err := IsEntitled(db, &user.ID, course)
	if err != nil {
		t.Fatalf("IsEntitled: %v", err)
	}
	if !entitled {
		t.Error("user not entitled after free auto-approval")
	}

	progress, err := GetProgress(db, user.ID, course.ID)
	if err != nil {
		t.Fatalf("GetProgress after free order: %v", err)
	}
	if progress.Progress != 0 {
		t.Errorf("fresh progress = %d, want 0", progress.Progress)
	}
}

func TestCreateOrderPaidCartStartsPending(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "buyer@carrerpath.test")
	course := createTestCourse(t, db, "Paid Course", 499)

	order, err := CreateOrder(db, CreateOrderInput{
		UserID:        user.ID,
		Lines:         []OrderLine{{ItemType: models.ItemTypeCourse, ItemID: course.ID}},
		PaymentMethod: models.PaymentMethodManual,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Status != models.OrderStatusPending {
		t.Fatalf("paid order status = %q, want pending", order.Status)
	}
	if order.ApprovedAt != nil {
		t.Error("pending order should not carry approved_at")
	}
	if order.Reference == "" {
		t.Error("order reference was not generated")
	}

	entitled, err := IsEntitled(db, &user.ID, course)
	if err != nil {
		t.Fatalf("IsEntitled: %v", err)
	}
	if entitled {
		t.Error("pending order must not grant entitlement")
	}
}

func TestCreateOrderDuplicateBlockedUntilRejection(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "repeat@carrerpath.test")
	admin := createTestUser(t, db, "admin@carrerpath.test")
	course := createTestCourse(t, db, "Contested Course", 250)

	input := CreateOrderInput{
		UserID:        user.ID,
		Lines:         []OrderLine{{ItemType: models.ItemTypeCourse, ItemID: course.ID}},
		PaymentMethod: models.PaymentMethodManual,
	}

	first, err := CreateOrder(db, input)
	if err != nil {
		t.Fatalf("first CreateOrder: %v", err)
	}

	if _, err := CreateOrder(db, input); !errors.Is(err, ErrDuplicateOrder) {
		t.Fatalf("second CreateOrder err = %v, want ErrDuplicateOrder", err)
	}

	if _, err := RejectOrder(db, first.ID, admin.ID, "no payment received"); err != nil {
		t.Fatalf("RejectOrder: %v", err)
	}

	// Rejection frees the slot; a new attempt for the same item must succeed.
	second, err := CreateOrder(db, input)
	if err != nil {
		t.Fatalf("CreateOrder after rejection: %v", err)
	}
	if second.Status != models.OrderStatusPending {
		t.Errorf("new order status = %q, want pending", second.Status)
	}
}

func TestCreateOrderApprovedOrderStillBlocksDuplicates(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "owner@carrerpath.test")
	course := createTestCourse(t, db, "Owned Course", 120)

	createApprovedOrder(t, db, user, course)

	_, err := CreateOrder(db, CreateOrderInput{
		UserID:        user.ID,
		Lines:         []OrderLine{{ItemType: models.ItemTypeCourse, ItemID: course.ID}},
		PaymentMethod: models.PaymentMethodManual,
	})
	if !errors.Is(err, ErrDuplicateOrder) {
		t.Fatalf("err = %v, want ErrDuplicateOrder", err)
	}
}

func TestCreateOrderRejectsUnknownItems(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "lost@carrerpath.test")

	_, err := CreateOrder(db, CreateOrderInput{
		UserID:        user.ID,
		Lines:         []OrderLine{{ItemType: models.ItemTypeCourse, ItemID: uuid.New()}},
		PaymentMethod: models.PaymentMethodManual,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing item err = %v, want ErrNotFound", err)
	}

	_, err = CreateOrder(db, CreateOrderInput{
		UserID:        user.ID,
		Lines:         []OrderLine{{ItemType: "bootcamp", ItemID: uuid.New()}},
		PaymentMethod: models.PaymentMethodManual,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown type err = %v, want ErrValidation", err)
	}
}

func TestCreateOrderRejectsInactiveItem(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "late@carrerpath.test")
	course := createTestCourse(t, db, "Retired Course", 300)
	if err := db.Model(&models.Course{}).Where("id = ?", course.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate course: %v", err)
	}

	_, err := CreateOrder(db, CreateOrderInput{
		UserID:        user.ID,
		Lines:         []OrderLine{{ItemType: models.ItemTypeCourse, ItemID: course.ID}},
		PaymentMethod: models.PaymentMethodManual,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestNormalizeOrderLines(t *testing.T) {
	itemID := uuid.New()
	legacy := &OrderLine{ItemType: models.ItemTypeEbook, ItemID: itemID}
	list := []OrderLine{{ItemType: models.ItemTypeCourse, ItemID: uuid.New()}}

	lines, err := NormalizeOrderLines(legacy, nil)
	if err != nil {
		t.Fatalf("legacy shape: %v", err)
	}
	if len(lines) != 1 || lines[0].ItemID != itemID {
		t.Fatalf("legacy shape normalized to %+v", lines)
	}

	if _, err := NormalizeOrderLines(nil, list); err != nil {
		t.Fatalf("list shape: %v", err)
	}

	if _, err := NormalizeOrderLines(legacy, list); !errors.Is(err, ErrValidation) {
		t.Errorf("both shapes err = %v, want ErrValidation", err)
	}
	if _, err := NormalizeOrderLines(nil, nil); !errors.Is(err, ErrValidation) {
		t.Errorf("neither shape err = %v, want ErrValidation", err)
	}

	dup := []OrderLine{{ItemType: models.ItemTypeCourse, ItemID: itemID}, {ItemType: models.ItemTypeCourse, ItemID: itemID}}
	if _, err := NormalizeOrderLines(nil, dup); !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate line err = %v, want ErrValidation", err)
	}

	bad := []OrderLine{{ItemType: "webinar", ItemID: itemID}}
	if _, err := NormalizeOrderLines(nil, bad); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown type err = %v, want ErrValidation", err)
	}

	missing := []OrderLine{{ItemType: models.ItemTypeCourse}}
	if _, err := NormalizeOrderLines(nil, missing); !errors.Is(err, ErrValidation) {
		t.Errorf("missing id err = %v, want ErrValidation", err)
	}
}

func TestApproveOrderRecordsActorAndSeedsProgress(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "learner@carrerpath.test")
	admin := createTestUser(t, db, "approver@carrerpath.test")
	course := createTestCourse(t, db, "Approved Course", 200)

	order, err := CreateOrder(db, CreateOrderInput{
		UserID:        user.ID,
		Lines:         []OrderLine{{ItemType: models.ItemTypeCourse, ItemID: course.ID}},
		PaymentMethod: models.PaymentMethodManual,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	approved, err := ApproveOrder(db, order.ID, &admin.ID)
	if err != nil {
		t.Fatalf("ApproveOrder: %v", err)
	}
	if approved.Status != models.OrderStatusApproved {
		t.Fatalf("status = %q, want approved", approved.Status)
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != admin.ID {
		t.Errorf("approved_by = %v, want %s", approved.ApprovedBy, admin.ID)
	}
	if approved.ApprovedAt == nil {
		t.Error("approved_at not set")
	}

	if _, err := GetProgress(db, user.ID, course.ID); err != nil {
		t.Fatalf("progress not seeded on approval: %v", err)
	}
}

func TestApproveOrderTwiceLeavesOrderUnchanged(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "steady@carrerpath.test")
	admin := createTestUser(t, db, "first-admin@carrerpath.test")
	rival := createTestUser(t, db, "second-admin@carrerpath.test")
	course := createTestCourse(t, db, "Stable Course", 150)

	order, err := CreateOrder(db, CreateOrderInput{
		UserID:        user.ID,
		Lines:         []OrderLine{{ItemType: models.ItemTypeCourse, ItemID: course.ID}},
		PaymentMethod: models.PaymentMethodManual,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	approved, err := ApproveOrder(db, order.ID, &admin.ID)
	if err != nil {
		t.Fatalf("first ApproveOrder: %v", err)
	}

	if _, err := ApproveOrder(db, order.ID, &rival.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second ApproveOrder err = %v, want ErrInvalidTransition", err)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.ApprovedBy == nil || *reloaded.ApprovedBy != admin.ID {
		t.Errorf("approved_by changed to %v, want %s", reloaded.ApprovedBy, admin.ID)
	}
	if !reloaded.ApprovedAt.Equal(*approved.ApprovedAt) {
		t.Errorf("approved_at changed from %v to %v", approved.ApprovedAt, reloaded.ApprovedAt)
	}
}

func TestApproveRejectedOrderFails(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "denied@carrerpath.test")
	admin := createTestUser(t, db, "strict-admin@carrerpath.test")
	course := createTestCourse(t, db, "Disputed Course", 90)

	order, err := CreateOrder(db, CreateOrderInput{
		UserID:        user.ID,
		Lines:         []OrderLine{{ItemType: models.ItemTypeCourse, ItemID: course.ID}},
		PaymentMethod: models.PaymentMethodManual,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if _, err := RejectOrder(db, order.ID, admin.ID, "proof unreadable"); err != nil {
		t.Fatalf("RejectOrder: %v", err)
	}

	if _, err := ApproveOrder(db, order.ID, &admin.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("approve after reject err = %v, want ErrInvalidTransition", err)
	}
}

func TestApproveMissingOrderReturnsNotFound(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "idle-admin@carrerpath.test")

	if _, err := ApproveOrder(db, uuid.New(), &admin.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRejectOrderStoresReasonAndClearsActiveKeys(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "refused@carrerpath.test")
	admin := createTestUser(t, db, "reject-admin@carrerpath.test")
	course := createTestCourse(t, db, "Refused Course", 75)

	order, err := CreateOrder(db, CreateOrderInput{
		UserID:        user.ID,
		Lines:         []OrderLine{{ItemType: models.ItemTypeCourse, ItemID: course.ID}},
		PaymentMethod: models.PaymentMethodManual,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	rejected, err := RejectOrder(db, order.ID, admin.ID, "amount mismatch")
	if err != nil {
		t.Fatalf("RejectOrder: %v", err)
	}
	if rejected.Status != models.OrderStatusRejected {
		t.Fatalf("status = %q, want rejected", rejected.Status)
	}
	if rejected.RejectionReason == nil || *rejected.RejectionReason != "amount mismatch" {
		t.Errorf("rejection_reason = %v, want %q", rejected.RejectionReason, "amount mismatch")
	}

	var withKeys int64
	err = db.Model(&models.OrderItem{}).
		Where("order_id = ? AND active_key IS NOT NULL", order.ID).
		Count(&withKeys).Error
	if err != nil {
		t.Fatalf("count active keys: %v", err)
	}
	if withKeys != 0 {
		t.Errorf("%d order items still hold an active key after rejection", withKeys)
	}
}

func TestSubmitPaymentProof(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "payer@carrerpath.test")
	stranger := createTestUser(t, db, "stranger@carrerpath.test")
	admin := createTestUser(t, db, "proof-admin@carrerpath.test")
	course := createTestCourse(t, db, "Proof Course", 60)

	order, err := CreateOrder(db, CreateOrderInput{
		UserID:        user.ID,
		Lines:         []OrderLine{{ItemType: models.ItemTypeCourse, ItemID: course.ID}},
		PaymentMethod: models.PaymentMethodManual,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// An order is only visible to its owner.
	if _, err := SubmitPaymentProof(db, order.ID, stranger.ID, "https://cdn.test/p.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("stranger proof err = %v, want ErrNotFound", err)
	}

	updated, err := SubmitPaymentProof(db, order.ID, user.ID, "https://cdn.test/proof.png")
	if err != nil {
		t.Fatalf("SubmitPaymentProof: %v", err)
	}
	if updated.Status != models.OrderStatusPending {
		t.Errorf("status after proof = %q, want pending", updated.Status)
	}
	if updated.ProofURL == nil || *updated.ProofURL != "https://cdn.test/proof.png" {
		t.Errorf("proof_url = %v", updated.ProofURL)
	}
	if updated.ProofSubmittedAt == nil {
		t.Error("proof_submitted_at not set")
	}

	if _, err := ApproveOrder(db, order.ID, &admin.ID); err != nil {
		t.Fatalf("ApproveOrder: %v", err)
	}
	if _, err := SubmitPaymentProof(db, order.ID, user.ID, "https://cdn.test/late.png"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("proof on approved order err = %v, want ErrInvalidTransition", err)
	}
}

func TestCreateOrderMultiLineAmountAndMixedTypes(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "bundle@carrerpath.test")
	course := createTestCourse(t, db, "Bundle Course", 400)
	ebook := models.Ebook{Title: "Bundle Ebook", Price: 100, IsActive: true}
	if err := db.Create(&ebook).Error; err != nil {
		t.Fatalf("create ebook: %v", err)
	}

	order, err := CreateOrder(db, CreateOrderInput{
		UserID: user.ID,
		Lines: []OrderLine{
			{ItemType: models.ItemTypeCourse, ItemID: course.ID},
			{ItemType: models.ItemTypeEbook, ItemID: ebook.ID},
		},
		PaymentMethod: models.PaymentMethodManual,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Amount != 500 {
		t.Errorf("amount = %v, want 500", order.Amount)
	}
	if len(order.Items) != 2 {
		t.Errorf("order has %d items, want 2", len(order.Items))
	}
}
