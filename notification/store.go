package notification

import (
	"errors"

	"collab-service/apperr"
	"collab-service/model"
	"collab-service/utils"

	"gorm.io/gorm"
)

// Name attached to comment notifications whose comment has since been
// deleted; enrichment degrades instead of failing.
const DeletedCommentName = "comment deleted"

// ItemNameResolver is the catalog collaborator: display names for
// (item_type, item_id) pairs, absent when unknown.
type ItemNameResolver interface {
	ItemName(itemType string, itemID uint) (string, bool)
}

// Enriched is a notification plus the read-time display name of the item
// a comment notification ultimately points at. Enrichment happens on
// every fetch so renames of the underlying item are always reflected.
type Enriched struct {
	model.Notification
	ItemName string `json:"item_name"`
}

// Store persists notifications and enriches them on the way out.
type Store struct {
	db    *gorm.DB
	names ItemNameResolver
}

func NewStore(db *gorm.DB, names ItemNameResolver) *Store {
	return &Store{db: db, names: names}
}

// Notify persists one notification row.
func (s *Store) Notify(userID uint, ntype, message string, itemID uint, itemType, contentType string, category *string) (*model.Notification, error) {
	n := &model.Notification{
		UserID:      userID,
		Type:        ntype,
		Message:     message,
		ItemID:      itemID,
		ItemType:    itemType,
		ContentType: contentType,
		Category:    category,
	}
	if err := s.db.Create(n).Error; err != nil {
		return nil, apperr.Store("create notification", err)
	}
	return n, nil
}

// Enrich resolves the display name for a comment notification: the
// comment is loaded, then the original target item is looked up by its
// type. A vanished comment yields the deleted-comment sentinel.
func (s *Store) Enrich(n model.Notification) Enriched {
	enriched := Enriched{Notification: n}
	if n.ItemType != model.ItemTypeComment {
		return enriched
	}

	c := new(model.Comment)
	if err := s.db.First(c, n.ItemID).Error; err != nil {
		enriched.ItemName = DeletedCommentName
		return enriched
	}
	if name, ok := s.names.ItemName(c.ItemType, c.ItemID); ok {
		enriched.ItemName = name
	}
	return enriched
}

// List returns the user's notifications newest first, enriched, with
// offset pagination. Page is 1-based.
func (s *Store) List(userID uint, page, perPage int) ([]Enriched, int64, int, error) {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}

	var total int64
	if err := s.db.Model(&model.Notification{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, 0, apperr.Store("count notifications", err)
	}

	rows := []model.Notification{}
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, 0, apperr.Store("list notifications", err)
	}

	enriched := make([]Enriched, 0, len(rows))
	for _, n := range rows {
		enriched = append(enriched, s.Enrich(n))
	}
	return enriched, total, utils.Pages(total, perPage), nil
}

// ListUnread returns the user's unread notifications newest first,
// enriched.
func (s *Store) ListUnread(userID uint) ([]Enriched, error) {
	rows := []model.Notification{}
	err := s.db.
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Store("list unread notifications", err)
	}

	enriched := make([]Enriched, 0, len(rows))
	for _, n := range rows {
		enriched = append(enriched, s.Enrich(n))
	}
	return enriched, nil
}

// UnreadCount counts the user's unread notifications.
func (s *Store) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Store("count unread notifications", err)
	}
	return count, nil
}

// MarkRead flips one notification, ownership-scoped and one-way. Rows the
// user does not own, or that are already read, produce a zero-effect
// false.
func (s *Store) MarkRead(notificationID, userID uint) (bool, error) {
	res := s.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", notificationID, userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return false, apperr.Store("mark notification read", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// MarkAllRead flips every unread notification the user owns.
func (s *Store) MarkAllRead(userID uint) (int64, error) {
	res := s.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, apperr.Store("mark notifications read", res.Error)
	}
	return res.RowsAffected, nil
}

// ClearAll hard-deletes every notification the user owns.
func (s *Store) ClearAll(userID uint) error {
	err := s.db.Unscoped().Where("user_id = ?", userID).Delete(&model.Notification{}).Error
	if err != nil {
		return apperr.Store("clear notifications", err)
	}
	return nil
}

// Get returns one notification the user owns.
func (s *Store) Get(notificationID, userID uint) (*model.Notification, error) {
	n := new(model.Notification)
	err := s.db.Where("id = ? AND user_id = ?", notificationID, userID).First(n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("notification not found")
		}
		return nil, apperr.Store("lookup notification", err)
	}
	return n, nil
}
