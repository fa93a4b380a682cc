package model

import "gorm.io/gorm"

// Conversation is the canonical row for an unordered user pair.
// UserLowID < UserHighID always; the unique pair index is what lets two
// racing "first message" inserts converge on a single row.
type Conversation struct {
	gorm.Model
	UserLowID  uint `gorm:"not null;uniqueIndex:idx_conversation_pair" json:"user_low_id"`
	UserHighID uint `gorm:"not null;uniqueIndex:idx_conversation_pair" json:"user_high_id"`

	UserLow  User `gorm:"foreignKey:UserLowID" json:"-"`
	UserHigh User `gorm:"foreignKey:UserHighID" json:"-"`
}

// OtherParticipant returns the participant that is not the given user.
func (c *Conversation) OtherParticipant(userID uint) uint {
	if c.UserLowID == userID {
		return c.UserHighID
	}
	return c.UserLowID
}

// HasParticipant reports whether the user belongs to the conversation.
func (c *Conversation) HasParticipant(userID uint) bool {
	return c.UserLowID == userID || c.UserHighID == userID
}

type Message struct {
	gorm.Model
	ConversationID uint `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint `gorm:"not null" json:"sender_id"`
	RecipientID    uint `gorm:"not null;index" json:"recipient_id"`

	Sender    User `gorm:"foreignKey:SenderID" json:"sender"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"recipient"`

	// Content may be empty when a file is attached and vice versa; the
	// boundary is responsible for rejecting messages with neither.
	Content string `json:"content"`

	// IsRead transitions false -> true only, never back.
	IsRead bool `gorm:"not null;default:false" json:"is_read"`

	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
	FileType string `json:"file_type"`
}
