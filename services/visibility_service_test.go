package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/models"
)

func strPtr(s string) *string { return &s }

func makeLeaf(title string, free, preview, active bool) models.ContentLeaf {
	return models.ContentLeaf{
		ID:         uuid.New(),
		Kind:       models.LeafKindVideo,
		Title:      title,
		IsFree:     free,
		IsPreview:  preview,
		IsActive:   active,
		PlaybackID: strPtr("pb-" + title),
		PreviewURL: strPtr("https://cdn.test/preview/" + title),
	}
}

// sampleTree: two categories; the first holds four direct leaves (one free,
// one preview-only, two fully locked), the second holds one subcategory with
// two locked leaves.
func sampleTree() []models.ContentCategory {
	return []models.ContentCategory{
		{
			ID:    uuid.New(),
			Title: "Foundations",
			Leaves: []models.ContentLeaf{
				makeLeaf("intro", true, false, true),
				makeLeaf("teaser", false, true, true),
				makeLeaf("deep-dive-1", false, false, true),
				makeLeaf("deep-dive-2", false, false, true),
			},
		},
		{
			ID:    uuid.New(),
			Title: "Advanced",
			Subcategories: []models.ContentSubcategory{
				{
					ID:    uuid.New(),
					Title: "Practice",
					Leaves: []models.ContentLeaf{
						makeLeaf("drill-1", false, false, true),
						makeLeaf("drill-2", false, false, true),
					},
				},
			},
		},
	}
}

func TestFilterTreeEntitledKeepsEverything(t *testing.T) {
	tree := FilterTree(sampleTree(), true)

	if tree.AccessType != AccessTypeFull {
		t.Fatalf("access_type = %q, want full", tree.AccessType)
	}
	if tree.TotalLocked != 0 {
		t.Errorf("total_locked = %d, want 0", tree.TotalLocked)
	}
	if got := tree.LeafCount(); got != 6 {
		t.Fatalf("leaf count = %d, want 6", got)
	}
	for _, category := range tree.Categories {
		if category.HiddenLeaves != 0 {
			t.Errorf("category %q hidden_leaves = %d, want 0", category.Title, category.HiddenLeaves)
		}
		for _, leaf := range category.Leaves {
			if leaf.PlaybackID == nil {
				t.Errorf("entitled view dropped payload on leaf %q", leaf.Title)
			}
		}
	}
}

func TestFilterTreeLimitedWithholdsPaidPayloads(t *testing.T) {
	tree := FilterTree(sampleTree(), false)

	if tree.AccessType != AccessTypeLimited {
		t.Fatalf("access_type = %q, want limited", tree.AccessType)
	}
	// deep-dive-1, deep-dive-2, drill-1, drill-2 are withheld.
	if tree.TotalLocked != 4 {
		t.Errorf("total_locked = %d, want 4", tree.TotalLocked)
	}
	if got := tree.LeafCount(); got != 2 {
		t.Fatalf("visible leaf count = %d, want 2 (free + preview)", got)
	}

	foundations := tree.Categories[0]
	if foundations.HiddenLeaves != 2 {
		t.Errorf("foundations hidden_leaves = %d, want 2", foundations.HiddenLeaves)
	}
	for _, leaf := range foundations.Leaves {
		switch {
		case leaf.IsFree:
			if leaf.PlaybackID == nil {
				t.Errorf("free leaf %q lost its payload", leaf.Title)
			}
		case leaf.IsPreview:
			if leaf.PlaybackID != nil {
				t.Errorf("preview-only leaf %q leaked its real payload", leaf.Title)
			}
			if leaf.PreviewURL == nil {
				t.Errorf("preview-only leaf %q has no preview payload", leaf.Title)
			}
		default:
			t.Errorf("locked leaf %q should not be listed at all", leaf.Title)
		}
	}
}

func TestFilterTreeKeepsEmptiedContainers(t *testing.T) {
	tree := FilterTree(sampleTree(), false)

	if len(tree.Categories) != 2 {
		t.Fatalf("categories pruned: got %d, want 2", len(tree.Categories))
	}
	advanced := tree.Categories[1]
	if len(advanced.Subcategories) != 1 {
		t.Fatalf("subcategory pruned from %q", advanced.Title)
	}
	practice := advanced.Subcategories[0]
	if len(practice.Leaves) != 0 {
		t.Errorf("practice leaves = %d, want 0", len(practice.Leaves))
	}
	if practice.HiddenLeaves != 2 {
		t.Errorf("practice hidden_leaves = %d, want 2", practice.HiddenLeaves)
	}
}

func TestFilterTreeSkipsInactiveAndMalformedNodes(t *testing.T) {
	categories := []models.ContentCategory{
		{}, // zero-value category from a stale join
		{
			ID:    uuid.New(),
			Title: "Mixed",
			Leaves: []models.ContentLeaf{
				{},                              // zero-value leaf
				makeLeaf("dead", true, false, false), // deactivated
				makeLeaf("live", true, false, true),
			},
			Subcategories: []models.ContentSubcategory{
				{}, // zero-value subcategory
			},
		},
	}

	for _, entitled := range []bool{true, false} {
		tree := FilterTree(categories, entitled)
		if len(tree.Categories) != 1 {
			t.Fatalf("entitled=%v: categories = %d, want 1", entitled, len(tree.Categories))
		}
		mixed := tree.Categories[0]
		if len(mixed.Leaves) != 1 || mixed.Leaves[0].Title != "live" {
			t.Errorf("entitled=%v: visible leaves = %+v, want only %q", entitled, mixed.Leaves, "live")
		}
		if len(mixed.Subcategories) != 0 {
			t.Errorf("entitled=%v: zero-value subcategory kept", entitled)
		}
		// Skipped nodes are not withheld content and must not inflate counts.
		if tree.TotalLocked != 0 {
			t.Errorf("entitled=%v: total_locked = %d, want 0", entitled, tree.TotalLocked)
		}
	}
}

func TestFilterTreeNilAndEmptyInput(t *testing.T) {
	tree := FilterTree(nil, false)
	if tree.AccessType != AccessTypeLimited {
		t.Errorf("access_type = %q, want limited", tree.AccessType)
	}
	if tree.Categories == nil || len(tree.Categories) != 0 {
		t.Errorf("nil input should yield an empty, non-nil category list, got %#v", tree.Categories)
	}
	if tree.TotalLocked != 0 || tree.LeafCount() != 0 {
		t.Error("empty tree reports phantom content")
	}
}

func TestLoadContentTreeOrdersByPosition(t *testing.T) {
	db := setupTestDB(t)
	course := createTestCourse(t, db, "Ordered Course", 100)

	second := models.ContentCategory{ItemType: models.ItemTypeCourse, ItemID: course.ID, Title: "Part Two", Position: 2}
	first := models.ContentCategory{ItemType: models.ItemTypeCourse, ItemID: course.ID, Title: "Part One", Position: 1}
	for _, category := range []*models.ContentCategory{&second, &first} {
		if err := db.Create(category).Error; err != nil {
			t.Fatalf("create category: %v", err)
		}
	}
	for i, title := range []string{"lesson-b", "lesson-a"} {
		leaf := models.ContentLeaf{
			CategoryID: &first.ID,
			Kind:       models.LeafKindVideo,
			Title:      title,
			Position:   2 - i,
			IsActive:   true,
		}
		if err := db.Create(&leaf).Error; err != nil {
			t.Fatalf("create leaf: %v", err)
		}
	}

	categories, err := LoadContentTree(db, models.ItemTypeCourse, course.ID)
	if err != nil {
		t.Fatalf("LoadContentTree: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("categories = %d, want 2", len(categories))
	}
	if categories[0].Title != "Part One" || categories[1].Title != "Part Two" {
		t.Errorf("categories out of order: %q, %q", categories[0].Title, categories[1].Title)
	}
	leaves := categories[0].Leaves
	if len(leaves) != 2 || leaves[0].Title != "lesson-a" || leaves[1].Title != "lesson-b" {
		t.Errorf("leaves out of order: %+v", leaves)
	}
}
