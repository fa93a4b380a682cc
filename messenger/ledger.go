package messenger

import (
	"errors"
	"path"
	"sort"
	"strings"
	"time"

	"collab-service/apperr"
	"collab-service/model"

	"gorm.io/gorm"
)

// Chat uploads served by the file-storage collaborator look like
// /files/chat_uploads/{conversation_id}/{unique_name}; only the last path
// segment is ever inspected here.
const chatUploadPrefix = "/files/chat_uploads/"

// Ledger is the durable store of conversations and messages.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// FileMeta carries an optional attachment on a message.
type FileMeta struct {
	Name string
	URL  string
	Type string
}

// ConversationSummary is one row of a user's conversation list.
type ConversationSummary struct {
	Conversation model.Conversation `json:"conversation"`
	Partner      model.User         `json:"partner"`
	LastMessage  *model.Message     `json:"last_message"`
	UnreadCount  int64              `json:"unread_count"`
}

// GetOrCreateConversation canonicalizes the pair ordering and returns the
// existing row when present. A lost insert race is recovered by re-query:
// the unique pair index guarantees the winner's row is the one returned.
func (l *Ledger) GetOrCreateConversation(a, b uint) (*model.Conversation, error) {
	if a == b {
		return nil, apperr.InvalidArg("conversation requires two distinct users")
	}

	low, high := a, b
	if low > high {
		low, high = high, low
	}

	conv := new(model.Conversation)
	err := l.db.Where("user_low_id = ? AND user_high_id = ?", low, high).First(conv).Error
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Store("lookup conversation", err)
	}

	conv = &model.Conversation{UserLowID: low, UserHighID: high}
	if createErr := l.db.Create(conv).Error; createErr != nil {
		// A concurrent first message won the insert; fetch its row.
		conv = new(model.Conversation)
		if err := l.db.Where("user_low_id = ? AND user_high_id = ?", low, high).First(conv).Error; err != nil {
			return nil, apperr.Store("create conversation", createErr)
		}
	}
	return conv, nil
}

// GetConversation returns one conversation row, or NotFound.
func (l *Ledger) GetConversation(conversationID uint) (*model.Conversation, error) {
	conv := new(model.Conversation)
	if err := l.db.First(conv, conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("conversation not found")
		}
		return nil, apperr.Store("lookup conversation", err)
	}
	return conv, nil
}

// AuthorizeParticipant loads the conversation and verifies the user
// belongs to it. Boundaries call this before reading, posting into or
// clearing a conversation addressed by id.
func (l *Ledger) AuthorizeParticipant(conversationID, userID uint) (*model.Conversation, error) {
	conv, err := l.GetConversation(conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, apperr.Forbidden("not a participant of this conversation")
	}
	return conv, nil
}

// SendMessage persists one message. When the attachment URL points at the
// server-local chat-upload path, the stored file name is overridden with
// the unique on-disk name from the URL's last segment; caller-supplied
// display names survive only for external or absent URLs.
func (l *Ledger) SendMessage(conversationID, senderID, recipientID uint, content string, file *FileMeta) (*model.Message, error) {
	msg := &model.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		RecipientID:    recipientID,
		Content:        content,
	}

	if file != nil {
		msg.FileName = file.Name
		msg.FileURL = file.URL
		msg.FileType = file.Type
		if strings.HasPrefix(file.URL, chatUploadPrefix) {
			msg.FileName = path.Base(file.URL)
		}
	}

	if err := l.db.Create(msg).Error; err != nil {
		return nil, apperr.Store("create message", err)
	}
	if err := l.db.Preload("Sender").Preload("Recipient").First(msg, msg.ID).Error; err != nil {
		return nil, apperr.Store("load created message", err)
	}
	return msg, nil
}

// ListMessages returns messages newest first with sender and recipient
// joined. Offset-based pagination with a caller-supplied page size.
func (l *Ledger) ListMessages(conversationID uint, limit, offset int) ([]model.Message, error) {
	messages := []model.Message{}
	err := l.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Preload("Sender").
		Preload("Recipient").
		Find(&messages).Error
	if err != nil {
		return nil, apperr.Store("list messages", err)
	}
	return messages, nil
}

// ListConversationsForUser resolves, per conversation, the other
// participant, the single most recent message and the unread count scoped
// to that conversation. Ordered by most-recent-message time descending;
// conversations with no messages fall back to their creation time.
func (l *Ledger) ListConversationsForUser(userID uint) ([]ConversationSummary, error) {
	conversations := []model.Conversation{}
	err := l.db.
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Find(&conversations).Error
	if err != nil {
		return nil, apperr.Store("list conversations", err)
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		partner := model.User{}
		if err := l.db.First(&partner, conv.OtherParticipant(userID)).Error; err != nil &&
			!errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Store("load conversation partner", err)
		}

		// Highest id breaks created_at ties so two messages sharing a
		// timestamp never produce duplicate "most recent" rows.
		last := new(model.Message)
		err := l.db.
			Where("conversation_id = ?", conv.ID).
			Order("created_at DESC, id DESC").
			Preload("Sender").
			Preload("Recipient").
			First(last).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			last = nil
		} else if err != nil {
			return nil, apperr.Store("load last message", err)
		}

		var unread int64
		err = l.db.Model(&model.Message{}).
			Where("conversation_id = ? AND recipient_id = ? AND is_read = ?", conv.ID, userID, false).
			Count(&unread).Error
		if err != nil {
			return nil, apperr.Store("count unread messages", err)
		}

		summaries = append(summaries, ConversationSummary{
			Conversation: conv,
			Partner:      partner,
			LastMessage:  last,
			UnreadCount:  unread,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaryTime(summaries[i]).After(summaryTime(summaries[j]))
	})
	return summaries, nil
}

func summaryTime(s ConversationSummary) time.Time {
	if s.LastMessage != nil {
		return s.LastMessage.CreatedAt
	}
	return s.Conversation.CreatedAt
}

// MarkRead flips every unread message addressed to the reader within the
// conversation and returns the flipped count plus the now-read messages
// sent by the other participant, so their read receipts can be pushed.
// A reader who is not a participant gets a zero-effect result, not an
// error; the boundary decides what status that maps to.
func (l *Ledger) MarkRead(conversationID, readerID uint) (int64, []model.Message, error) {
	conv := new(model.Conversation)
	if err := l.db.First(conv, conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, nil
		}
		return 0, nil, apperr.Store("lookup conversation", err)
	}
	if !conv.HasParticipant(readerID) {
		return 0, nil, nil
	}

	flipped := []model.Message{}
	var count int64
	err := l.db.Transaction(func(tx *gorm.DB) error {
		candidates := []model.Message{}
		if err := tx.
			Where("conversation_id = ? AND recipient_id = ? AND is_read = ?", conversationID, readerID, false).
			Order("id ASC").
			Preload("Sender").
			Find(&candidates).Error; err != nil {
			return err
		}

		// Per-row conditional flip: a row a racing reader already flipped
		// reports zero rows affected and is excluded, so the count and the
		// receipt list cover only rows this call transitioned.
		for i := range candidates {
			res := tx.Model(&model.Message{}).
				Where("id = ? AND is_read = ?", candidates[i].ID, false).
				Update("is_read", true)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}
			candidates[i].IsRead = true
			flipped = append(flipped, candidates[i])
			count += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, nil, apperr.Store("mark messages read", err)
	}
	return count, flipped, nil
}

// TotalUnreadForUser counts unread messages addressed to the user from
// currently-active senders. Deactivated senders drop out of the badge.
func (l *Ledger) TotalUnreadForUser(userID uint) (int64, error) {
	var count int64
	err := l.db.Model(&model.Message{}).
		Joins("JOIN users ON users.id = messages.sender_id").
		Where("messages.recipient_id = ? AND messages.is_read = ? AND users.active = ?", userID, false, true).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Store("count unread messages", err)
	}
	return count, nil
}

// ClearMessages hard-deletes every message in the conversation. The
// conversation row itself is kept.
func (l *Ledger) ClearMessages(conversationID uint) error {
	err := l.db.Unscoped().
		Where("conversation_id = ?", conversationID).
		Delete(&model.Message{}).Error
	if err != nil {
		return apperr.Store("clear messages", err)
	}
	return nil
}
