package notification

import (
	"collab-service/apperr"
	"collab-service/model"

	"gorm.io/gorm"
)

// WatchRegistry stores per-user subscriptions to content categories.
// A nil category means "all categories of this content type" and is its
// own distinct value: a stored NULL matches only a categoryless query,
// never a concrete category, and removal matches null-to-null exactly.
type WatchRegistry struct {
	db *gorm.DB
}

func NewWatchRegistry(db *gorm.DB) *WatchRegistry {
	return &WatchRegistry{db: db}
}

// scopeCategory applies the null-aware category match. Plain equality
// would never match NULL rows.
func scopeCategory(q *gorm.DB, category *string) *gorm.DB {
	if category == nil {
		return q.Where("category IS NULL")
	}
	return q.Where("category = ?", *category)
}

// Add inserts a preference; duplicates are idempotent no-ops returning
// the existing row. A lost insert race is recovered by re-query: the
// unique triple index guarantees the winner's row is the one returned.
func (r *WatchRegistry) Add(userID uint, contentType string, category *string) (*model.WatchPreference, error) {
	existing := new(model.WatchPreference)
	q := r.db.Where("user_id = ? AND content_type = ?", userID, contentType)
	err := scopeCategory(q, category).First(existing).Error
	if err == nil {
		return existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, apperr.Store("lookup watch preference", err)
	}

	pref := &model.WatchPreference{
		UserID:      userID,
		ContentType: contentType,
		Category:    category,
	}
	if createErr := r.db.Create(pref).Error; createErr != nil {
		// A concurrent add won the insert; fetch its row.
		pref = new(model.WatchPreference)
		q := r.db.Where("user_id = ? AND content_type = ?", userID, contentType)
		if err := scopeCategory(q, category).First(pref).Error; err != nil {
			return nil, apperr.Store("create watch preference", createErr)
		}
	}
	return pref, nil
}

// Remove deletes the exactly-matching row; a nil category removes only
// the NULL-category row, never one with a concrete category.
func (r *WatchRegistry) Remove(userID uint, contentType string, category *string) (bool, error) {
	q := r.db.Unscoped().Where("user_id = ? AND content_type = ?", userID, contentType)
	res := scopeCategory(q, category).Delete(&model.WatchPreference{})
	if res.Error != nil {
		return false, apperr.Store("remove watch preference", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ResolveWatchers returns every user holding the exactly-matching
// preference row, each at most once. NULL categories are distinct under
// the unique index, so the query deduplicates rather than trusting it.
func (r *WatchRegistry) ResolveWatchers(contentType string, category *string) ([]uint, error) {
	users := []uint{}
	q := r.db.Model(&model.WatchPreference{}).Distinct().Where("content_type = ?", contentType)
	if err := scopeCategory(q, category).Pluck("user_id", &users).Error; err != nil {
		return nil, apperr.Store("resolve watchers", err)
	}
	return users, nil
}

// ListForUser returns the user's preference rows.
func (r *WatchRegistry) ListForUser(userID uint) ([]model.WatchPreference, error) {
	prefs := []model.WatchPreference{}
	if err := r.db.Where("user_id = ?", userID).Find(&prefs).Error; err != nil {
		return nil, apperr.Store("list watch preferences", err)
	}
	return prefs, nil
}

var defaultCategory = "general"

// defaultPreferences is the starter set installed on account creation.
var defaultPreferences = []model.WatchPreference{
	{ContentType: model.ContentTypeDocuments, Category: &defaultCategory},
	{ContentType: model.ContentTypePatches},
	{ContentType: model.ContentTypeLinks},
	{ContentType: model.ContentTypeMisc},
}

// SeedDefaults installs the starter preferences, idempotent per row.
func (r *WatchRegistry) SeedDefaults(userID uint) error {
	for _, pref := range defaultPreferences {
		if _, err := r.Add(userID, pref.ContentType, pref.Category); err != nil {
			return err
		}
	}
	return nil
}
