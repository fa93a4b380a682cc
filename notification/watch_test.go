package notification

import (
	"fmt"
	"sync/atomic"
	"testing"

	"collab-service/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:notification%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.WatchPreference{},
		&model.Notification{},
		&model.Comment{},
		&model.Document{},
	))
	return db
}

func strptr(v string) *string { return &v }

func TestAddIdempotent(t *testing.T) {
	registry := NewWatchRegistry(testDB(t))

	first, err := registry.Add(1, model.ContentTypeDocuments, strptr("general"))
	require.NoError(t, err)
	second, err := registry.Add(1, model.ContentTypeDocuments, strptr("general"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	prefs, err := registry.ListForUser(1)
	require.NoError(t, err)
	assert.Len(t, prefs, 1)
}

func TestAddUniqueTriple(t *testing.T) {
	db := testDB(t)
	registry := NewWatchRegistry(db)

	_, err := registry.Add(1, model.ContentTypePatches, strptr("security"))
	require.NoError(t, err)

	// The triple index rejects a second identical row even when it
	// bypasses the registry's own existence check.
	dup := &model.WatchPreference{UserID: 1, ContentType: model.ContentTypePatches, Category: strptr("security")}
	err = db.Create(dup).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestAddRecoversFromExistingRow(t *testing.T) {
	db := testDB(t)
	registry := NewWatchRegistry(db)

	// A concurrent add already landed the row; Add converges on it.
	existing := &model.WatchPreference{UserID: 1, ContentType: model.ContentTypeDocuments, Category: strptr("general")}
	require.NoError(t, db.Create(existing).Error)

	pref, err := registry.Add(1, model.ContentTypeDocuments, strptr("general"))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, pref.ID)

	prefs, err := registry.ListForUser(1)
	require.NoError(t, err)
	assert.Len(t, prefs, 1)
}

func TestResolveWatchersDeduplicates(t *testing.T) {
	db := testDB(t)
	registry := NewWatchRegistry(db)

	// NULL categories compare distinct under the unique index, so
	// duplicate categoryless rows can exist; each user still gets one
	// notification per event.
	require.NoError(t, db.Create(&model.WatchPreference{UserID: 1, ContentType: model.ContentTypePatches}).Error)
	require.NoError(t, db.Create(&model.WatchPreference{UserID: 1, ContentType: model.ContentTypePatches}).Error)

	watchers, err := registry.ResolveWatchers(model.ContentTypePatches, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, watchers)
}

func TestResolveWatchersNullExact(t *testing.T) {
	registry := NewWatchRegistry(testDB(t))

	_, err := registry.Add(1, model.ContentTypePatches, nil)
	require.NoError(t, err)
	_, err = registry.Add(2, model.ContentTypePatches, strptr("security"))
	require.NoError(t, err)

	// A nil query matches only the NULL row; a concrete category matches
	// only its own row. Neither side subsumes the other.
	watchers, err := registry.ResolveWatchers(model.ContentTypePatches, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, watchers)

	watchers, err = registry.ResolveWatchers(model.ContentTypePatches, strptr("security"))
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, watchers)

	watchers, err = registry.ResolveWatchers(model.ContentTypePatches, strptr("ui"))
	require.NoError(t, err)
	assert.Empty(t, watchers)
}

func TestRemoveNullExact(t *testing.T) {
	registry := NewWatchRegistry(testDB(t))

	_, err := registry.Add(1, model.ContentTypeLinks, nil)
	require.NoError(t, err)
	_, err = registry.Add(1, model.ContentTypeLinks, strptr("tools"))
	require.NoError(t, err)

	removed, err := registry.Remove(1, model.ContentTypeLinks, nil)
	require.NoError(t, err)
	assert.True(t, removed)

	// The concrete-category row is untouched.
	prefs, err := registry.ListForUser(1)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	require.NotNil(t, prefs[0].Category)
	assert.Equal(t, "tools", *prefs[0].Category)

	removed, err = registry.Remove(1, model.ContentTypeLinks, nil)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSeedDefaults(t *testing.T) {
	registry := NewWatchRegistry(testDB(t))

	require.NoError(t, registry.SeedDefaults(5))
	require.NoError(t, registry.SeedDefaults(5))

	prefs, err := registry.ListForUser(5)
	require.NoError(t, err)
	assert.Len(t, prefs, 4)

	byType := map[string]*string{}
	for _, p := range prefs {
		byType[p.ContentType] = p.Category
	}
	require.NotNil(t, byType[model.ContentTypeDocuments])
	assert.Equal(t, "general", *byType[model.ContentTypeDocuments])
	assert.Nil(t, byType[model.ContentTypePatches])
	assert.Nil(t, byType[model.ContentTypeLinks])
	assert.Nil(t, byType[model.ContentTypeMisc])
}
