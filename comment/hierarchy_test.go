package comment

import (
	"testing"

	"collab-service/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func flat(id uint, parent *uint) model.Comment {
	return model.Comment{
		Model:           gorm.Model{ID: id},
		UserID:          1,
		ItemID:          10,
		ItemType:        model.ItemTypeDocument,
		ParentCommentID: parent,
	}
}

func ptr(v uint) *uint { return &v }

func TestBuildHierarchy(t *testing.T) {
	top := BuildHierarchy([]model.Comment{
		flat(1, nil),
		flat(2, ptr(1)),
		flat(3, ptr(2)),
		flat(4, nil),
	})

	require.Len(t, top, 2)
	assert.EqualValues(t, 1, top[0].ID)
	assert.EqualValues(t, 4, top[1].ID)

	require.Len(t, top[0].Replies, 1)
	assert.EqualValues(t, 2, top[0].Replies[0].ID)
	require.Len(t, top[0].Replies[0].Replies, 1)
	assert.EqualValues(t, 3, top[0].Replies[0].Replies[0].ID)

	assert.Empty(t, top[1].Replies)
}

func TestBuildHierarchyOrphanPromoted(t *testing.T) {
	// Parent 99 is not in the slice; its child surfaces at top level
	// instead of disappearing.
	top := BuildHierarchy([]model.Comment{
		flat(1, nil),
		flat(2, ptr(99)),
	})

	require.Len(t, top, 2)
	assert.EqualValues(t, 1, top[0].ID)
	assert.EqualValues(t, 2, top[1].ID)
}

func TestBuildHierarchyEmpty(t *testing.T) {
	assert.Empty(t, BuildHierarchy(nil))
}

func TestPaginateTopLevel(t *testing.T) {
	top := make([]*Node, 0, 25)
	for i := uint(1); i <= 25; i++ {
		c := flat(i, nil)
		top = append(top, &Node{Comment: c})
	}

	page, total, pages := PaginateTopLevel(top, 1, 10)
	assert.Equal(t, 25, total)
	assert.Equal(t, 3, pages)
	require.Len(t, page, 10)
	assert.EqualValues(t, 1, page[0].ID)

	page, _, _ = PaginateTopLevel(top, 3, 10)
	require.Len(t, page, 5)
	assert.EqualValues(t, 21, page[0].ID)

	// Past the end yields an empty page, not an error.
	page, total, pages = PaginateTopLevel(top, 9, 10)
	assert.Equal(t, 25, total)
	assert.Equal(t, 3, pages)
	assert.Empty(t, page)
}

func TestPaginateTopLevelDefaults(t *testing.T) {
	top := []*Node{{Comment: flat(1, nil)}}

	page, total, pages := PaginateTopLevel(top, 0, 0)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, pages)
	require.Len(t, page, 1)
}

// Replies never count toward pagination: pages are cut over top-level
// threads only, each carrying its full subtree.
func TestPaginateTopLevelIgnoresReplies(t *testing.T) {
	child := flat(3, ptr(1))
	top := []*Node{
		{Comment: flat(1, nil), Replies: []*Node{{Comment: child}}},
		{Comment: flat(2, nil)},
	}

	page, total, pages := PaginateTopLevel(top, 1, 1)
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, pages)
	require.Len(t, page, 1)
	require.Len(t, page[0].Replies, 1)
}
