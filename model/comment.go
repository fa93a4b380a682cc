package model

import "gorm.io/gorm"

// Comment rows form a tree through ParentCommentID; a null parent marks a
// top-level thread. Deleting a comment cascades to its descendants at the
// storage layer.
type Comment struct {
	gorm.Model
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	ItemID   uint   `gorm:"not null;index:idx_comment_item" json:"item_id"`
	ItemType string `gorm:"not null;index:idx_comment_item" json:"item_type"`
	Content  string `gorm:"not null" json:"content"`

	ParentCommentID *uint `gorm:"index" json:"parent_comment_id"`
}
