package catalog

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

func testResolver(t *testing.T) (*Resolver, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:catalog%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Software{},
		&model.Version{},
		&model.Patch{},
		&model.Document{},
		&model.Link{},
		&model.MiscFile{},
	))
	return NewResolver(db), db
}

func TestItemNamePerType(t *testing.T) {
	resolver, db := testResolver(t)

	doc := &model.Document{Name: "Install Guide"}
	require.NoError(t, db.Create(doc).Error)
	link := &model.Link{Name: "Wiki", URL: "https://wiki.example.com"}
	require.NoError(t, db.Create(link).Error)

	name, ok := resolver.ItemName(model.ItemTypeDocument, doc.ID)
	require.True(t, ok)
	assert.Equal(t, "Install Guide", name)

	name, ok = resolver.ItemName(model.ItemTypeLink, link.ID)
	require.True(t, ok)
	assert.Equal(t, "Wiki", name)
}

func TestItemNameVersionIncludesSoftware(t *testing.T) {
	resolver, db := testResolver(t)

	software := &model.Software{Name: "Analyzer"}
	require.NoError(t, db.Create(software).Error)
	version := &model.Version{SoftwareID: software.ID, Number: "2.4.1"}
	require.NoError(t, db.Create(version).Error)

	name, ok := resolver.ItemName(model.ItemTypeVersion, version.ID)
	require.True(t, ok)
	assert.Equal(t, "Analyzer 2.4.1", name)
}

func TestItemNameUnknown(t *testing.T) {
	resolver, _ := testResolver(t)

	_, ok := resolver.ItemName(model.ItemTypeDocument, 404)
	assert.False(t, ok)

	_, ok = resolver.ItemName("unsupported", 1)
	assert.False(t, ok)
}
