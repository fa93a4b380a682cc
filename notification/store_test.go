package notification

import (
	"testing"

	"collab-service/catalog"
	"collab-service/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	return NewStore(db, catalog.NewResolver(db)), db
}

func TestEnrichCommentNotification(t *testing.T) {
	store, db := testStore(t)

	doc := &model.Document{Name: "Deployment Guide", Category: "general"}
	require.NoError(t, db.Create(doc).Error)
	c := &model.Comment{UserID: 1, ItemID: doc.ID, ItemType: model.ItemTypeDocument, Content: "typo in step 3"}
	require.NoError(t, db.Create(c).Error)

	n, err := store.Notify(2, "comment", "alice commented", c.ID, model.ItemTypeComment, model.ContentTypeDocuments, nil)
	require.NoError(t, err)

	enriched := store.Enrich(*n)
	assert.Equal(t, "Deployment Guide", enriched.ItemName)

	// Enrichment is read-time: a rename shows up on the next fetch.
	require.NoError(t, db.Model(doc).Update("name", "Operations Guide").Error)
	enriched = store.Enrich(*n)
	assert.Equal(t, "Operations Guide", enriched.ItemName)
}

func TestEnrichDeletedComment(t *testing.T) {
	store, _ := testStore(t)

	n, err := store.Notify(2, "comment", "alice commented", 404, model.ItemTypeComment, model.ContentTypeDocuments, nil)
	require.NoError(t, err)

	enriched := store.Enrich(*n)
	assert.Equal(t, DeletedCommentName, enriched.ItemName)
}

func TestEnrichNonCommentPassThrough(t *testing.T) {
	store, _ := testStore(t)

	n, err := store.Notify(2, "content", "new patch", 7, model.ItemTypePatch, model.ContentTypePatches, nil)
	require.NoError(t, err)

	enriched := store.Enrich(*n)
	assert.Empty(t, enriched.ItemName)
}

func TestListPagination(t *testing.T) {
	store, _ := testStore(t)

	for i := 0; i < 5; i++ {
		_, err := store.Notify(1, "content", "n", uint(i+1), model.ItemTypePatch, model.ContentTypePatches, nil)
		require.NoError(t, err)
	}
	_, err := store.Notify(2, "content", "other user", 9, model.ItemTypePatch, model.ContentTypePatches, nil)
	require.NoError(t, err)

	rows, total, pages, err := store.List(1, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Equal(t, 3, pages)
	require.Len(t, rows, 2)
	// Newest first.
	assert.EqualValues(t, 5, rows[0].ItemID)

	rows, _, _, err = store.List(1, 3, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, rows[0].ItemID)
}

func TestMarkReadOneWay(t *testing.T) {
	store, _ := testStore(t)

	n, err := store.Notify(1, "content", "n", 1, model.ItemTypePatch, model.ContentTypePatches, nil)
	require.NoError(t, err)

	// Wrong owner changes nothing.
	flipped, err := store.MarkRead(n.ID, 2)
	require.NoError(t, err)
	assert.False(t, flipped)

	flipped, err = store.MarkRead(n.ID, 1)
	require.NoError(t, err)
	assert.True(t, flipped)

	// Already read: zero effect, never a revert.
	flipped, err = store.MarkRead(n.ID, 1)
	require.NoError(t, err)
	assert.False(t, flipped)

	count, err := store.UnreadCount(1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestMarkAllReadAndClear(t *testing.T) {
	store, _ := testStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.Notify(1, "content", "n", uint(i+1), model.ItemTypePatch, model.ContentTypePatches, nil)
		require.NoError(t, err)
	}

	count, err := store.MarkAllRead(1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	unread, err := store.ListUnread(1)
	require.NoError(t, err)
	assert.Empty(t, unread)

	require.NoError(t, store.ClearAll(1))
	_, total, _, err := store.List(1, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

type recordedPush struct {
	UserID  uint
	Event   string
	Payload any
}

type fakePusher struct {
	pushes []recordedPush
}

func (p *fakePusher) Push(userID uint, event string, payload any) {
	p.pushes = append(p.pushes, recordedPush{UserID: userID, Event: event, Payload: payload})
}

func TestFanoutSkipsActor(t *testing.T) {
	store, db := testStore(t)
	registry := NewWatchRegistry(db)
	pusher := &fakePusher{}
	fanout := NewFanout(registry, store, pusher)

	_, err := registry.Add(1, model.ContentTypeDocuments, nil)
	require.NoError(t, err)
	_, err = registry.Add(2, model.ContentTypeDocuments, nil)
	require.NoError(t, err)
	_, err = registry.Add(3, model.ContentTypeDocuments, nil)
	require.NoError(t, err)

	notified, err := fanout.NotifyWatchers(ContentEvent{
		ActorID:     2,
		Type:        "content",
		Message:     "bob uploaded a document",
		ItemID:      11,
		ItemType:    model.ItemTypeDocument,
		ContentType: model.ContentTypeDocuments,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, notified)

	// The actor has no stored row and receives no push.
	actorCount, err := store.UnreadCount(2)
	require.NoError(t, err)
	assert.EqualValues(t, 0, actorCount)

	require.Len(t, pusher.pushes, 2)
	for _, push := range pusher.pushes {
		assert.Equal(t, "notification", push.Event)
		assert.NotEqual(t, uint(2), push.UserID)
	}
}

func TestFanoutCategoryScope(t *testing.T) {
	store, db := testStore(t)
	registry := NewWatchRegistry(db)
	fanout := NewFanout(registry, store, nil)

	_, err := registry.Add(1, model.ContentTypePatches, strptr("security"))
	require.NoError(t, err)
	_, err = registry.Add(2, model.ContentTypePatches, nil)
	require.NoError(t, err)

	notified, err := fanout.NotifyWatchers(ContentEvent{
		ActorID:     99,
		Type:        "content",
		Message:     "new security patch",
		ItemID:      5,
		ItemType:    model.ItemTypePatch,
		ContentType: model.ContentTypePatches,
		Category:    strptr("security"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, notified)

	count, err := store.UnreadCount(1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	count, err = store.UnreadCount(2)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}
