package services

import (
	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/models"
	"gorm.io/gorm"
)

const (
	AccessTypeFull    = "full"
	AccessTypeLimited = "limited"
)

type TreeLeaf struct {
	ID              uuid.UUID  `json:"id"`
	Kind            string     `json:"kind"`
	Title           string     `json:"title"`
	Position        int        `json:"position"`
	IsFree          bool       `json:"is_free"`
	IsPreview       bool       `json:"is_preview"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	PlaybackID      *string    `json:"playback_id,omitempty"`
	FileURL         *string    `json:"file_url,omitempty"`
	MockTestID      *uuid.UUID `json:"mock_test_id,omitempty"`
	PreviewURL      *string    `json:"preview_url,omitempty"`
}

type TreeSubcategory struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Position     int        `json:"position"`
	Leaves       []TreeLeaf `json:"leaves"`
	HiddenLeaves int        `json:"hidden_leaves"`
}

type TreeCategory struct {
	ID            uuid.UUID         `json:"id"`
	Title         string            `json:"title"`
	Position      int               `json:"position"`
	Subcategories []TreeSubcategory `json:"subcategories"`
	Leaves        []TreeLeaf        `json:"leaves"`
	HiddenLeaves  int               `json:"hidden_leaves"`
}

type FilteredTree struct {
	AccessType  string         `json:"access_type"`
	TotalLocked int            `json:"total_locked"`
	Categories  []TreeCategory `json:"categories"`
}

// FilterTree shapes a content tree for one caller. Entitled callers get the
// tree untouched, payload references included. Everyone else keeps only
// free/preview leaves: a free leaf carries its real payload, a preview-only
// leaf carries nothing but its preview payload. Categories and subcategories
// are never pruned, only annotated with how many leaves were withheld.
// Deactivated or malformed leaves are skipped outright; a stale tree must
// degrade, not crash.
func FilterTree(categories []models.ContentCategory, entitled bool) FilteredTree {
	tree := FilteredTree{
		Categories: make([]TreeCategory, 0, len(categories)),
	}
	if entitled {
		tree.AccessType = AccessTypeFull
	} else {
		tree.AccessType = AccessTypeLimited
	}

	for _, category := range categories {
		if category.ID == uuid.Nil {
			continue
		}

		out := TreeCategory{
			ID:            category.ID,
			Title:         category.Title,
			Position:      category.Position,
			Subcategories: make([]TreeSubcategory, 0, len(category.Subcategories)),
			Leaves:        make([]TreeLeaf, 0, len(category.Leaves)),
		}

		for _, leaf := range category.Leaves {
			visible, locked := filterLeaf(leaf, entitled)
			if visible != nil {
				out.Leaves = append(out.Leaves, *visible)
			}
			if locked {
				out.HiddenLeaves++
				tree.TotalLocked++
			}
		}

		for _, sub := range category.Subcategories {
			if sub.ID == uuid.Nil {
				continue
			}
			subOut := TreeSubcategory{
				ID:       sub.ID,
				Title:    sub.Title,
				Position: sub.Position,
				Leaves:   make([]TreeLeaf, 0, len(sub.Leaves)),
			}
			for _, leaf := range sub.Leaves {
				visible, locked := filterLeaf(leaf, entitled)
				if visible != nil {
					subOut.Leaves = append(subOut.Leaves, *visible)
				}
				if locked {
					subOut.HiddenLeaves++
					tree.TotalLocked++
				}
			}
			out.Subcategories = append(out.Subcategories, subOut)
		}

		tree.Categories = append(tree.Categories, out)
	}

	return tree
}

// filterLeaf returns the serializable view of one leaf (nil when withheld
// entirely) and whether the leaf counts as locked for this caller.
func filterLeaf(leaf models.ContentLeaf, entitled bool) (*TreeLeaf, bool) {
	if leaf.ID == uuid.Nil || !leaf.IsActive {
		return nil, false
	}

	out := TreeLeaf{
		ID:              leaf.ID,
		Kind:            leaf.Kind,
		Title:           leaf.Title,
		Position:        leaf.Position,
		IsFree:          leaf.IsFree,
		IsPreview:       leaf.IsPreview,
		DurationMinutes: leaf.DurationMinutes,
	}

	if entitled || leaf.IsFree {
		out.PlaybackID = leaf.PlaybackID
		out.FileURL = leaf.FileURL
		out.MockTestID = leaf.MockTestID
		out.PreviewURL = leaf.PreviewURL
		return &out, false
	}

	if leaf.IsPreview {
		out.PreviewURL = leaf.PreviewURL
		return &out, false
	}

	return nil, true
}

// LeafCount is the structural size of a filtered tree, used by handlers and
// tests to compare shapes.
func (t FilteredTree) LeafCount() int {
	total := 0
	for _, category := range t.Categories {
		total += len(category.Leaves)
		for _, sub := range category.Subcategories {
			total += len(sub.Leaves)
		}
	}
	return total
}

// LoadContentTree fetches an item's full category tree with leaves ordered
// by position, ready for filtering.
func LoadContentTree(db *gorm.DB, itemType string, itemID uuid.UUID) ([]models.ContentCategory, error) {
	var categories []models.ContentCategory
	err := db.
		Preload("Leaves", func(db *gorm.DB) *gorm.DB { return db.Order("content_leafs.position asc") }).
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB { return db.Order("content_subcategories.position asc") }).
		Preload("Subcategories.Leaves", func(db *gorm.DB) *gorm.DB { return db.Order("content_leafs.position asc") }).
		Where("item_type = ? AND item_id = ?", itemType, itemID).
		Order("position asc").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
