package model

import "gorm.io/gorm"

// WatchPreference subscribes a user to a content category. A nil Category
// means "all categories of this content type" and is matched exactly: it
// never wildcards over concrete categories, and removal must match
// null-to-null. The unique triple index lets two racing adds converge on
// a single row the same way the conversation pair index does; NULL
// categories compare distinct under the index, so watcher resolution
// still deduplicates by user.
type WatchPreference struct {
	gorm.Model
	UserID      uint    `gorm:"not null;uniqueIndex:idx_watch_pref" json:"user_id"`
	ContentType string  `gorm:"not null;uniqueIndex:idx_watch_pref" json:"content_type"`
	Category    *string `gorm:"uniqueIndex:idx_watch_pref" json:"category"`
}

type Notification struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Type    string `gorm:"not null" json:"type"`
	Message string `json:"message"`

	// Item the notification points at. For comment notifications the item
	// is the comment itself; the original target is resolved at read time.
	ItemID   uint   `json:"item_id"`
	ItemType string `json:"item_type"`

	// Watch scope that produced the notification.
	ContentType string  `json:"content_type"`
	Category    *string `json:"category"`

	IsRead bool `gorm:"not null;default:false" json:"is_read"`
}
