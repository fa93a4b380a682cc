package comment

import (
	"errors"

	"collab-service/apperr"
	"collab-service/model"

	"gorm.io/gorm"
)

// Store owns comment persistence. Tree reconstruction lives in
// hierarchy.go and works on the flat lists returned here.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(userID, itemID uint, itemType, content string, parentID *uint) (*model.Comment, error) {
	if content == "" {
		return nil, apperr.InvalidArg("comment content is required")
	}

	if parentID != nil {
		parent := new(model.Comment)
		if err := s.db.First(parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("parent comment not found")
			}
			return nil, apperr.Store("lookup parent comment", err)
		}
	}

	c := &model.Comment{
		UserID:          userID,
		ItemID:          itemID,
		ItemType:        itemType,
		Content:         content,
		ParentCommentID: parentID,
	}
	if err := s.db.Create(c).Error; err != nil {
		return nil, apperr.Store("create comment", err)
	}
	if err := s.db.Preload("User").First(c, c.ID).Error; err != nil {
		return nil, apperr.Store("load created comment", err)
	}
	return c, nil
}

// Update rewrites the content of the author's own comment. Non-owners and
// missing rows get a zero-effect false, not an error.
func (s *Store) Update(commentID, userID uint, content string) (bool, error) {
	res := s.db.Model(&model.Comment{}).
		Where("id = ? AND user_id = ?", commentID, userID).
		Update("content", content)
	if res.Error != nil {
		return false, apperr.Store("update comment", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a comment and every descendant. Ownership is required
// unless the caller holds the admin role. The cascade is enforced here,
// not in the hierarchy builder.
func (s *Store) Delete(commentID, userID uint, admin bool) (bool, error) {
	c := new(model.Comment)
	if err := s.db.First(c, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperr.Store("lookup comment", err)
	}
	if c.UserID != userID && !admin {
		return false, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ids := []uint{commentID}
		frontier := []uint{commentID}
		for len(frontier) > 0 {
			children := []uint{}
			if err := tx.Model(&model.Comment{}).
				Where("parent_comment_id IN ?", frontier).
				Pluck("id", &children).Error; err != nil {
				return err
			}
			ids = append(ids, children...)
			frontier = children
		}
		return tx.Unscoped().Where("id IN ?", ids).Delete(&model.Comment{}).Error
	})
	if err != nil {
		return false, apperr.Store("delete comment tree", err)
	}
	return true, nil
}

// ListForItem returns all comments for one (item_id, item_type) in
// ascending insertion order, the shape BuildHierarchy expects.
func (s *Store) ListForItem(itemID uint, itemType string) ([]model.Comment, error) {
	comments := []model.Comment{}
	err := s.db.
		Where("item_id = ? AND item_type = ?", itemID, itemType).
		Order("created_at ASC, id ASC").
		Preload("User").
		Find(&comments).Error
	if err != nil {
		return nil, apperr.Store("list comments", err)
	}
	return comments, nil
}

// Get returns one comment, or NotFound.
func (s *Store) Get(commentID uint) (*model.Comment, error) {
	c := new(model.Comment)
	if err := s.db.First(c, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, apperr.Store("lookup comment", err)
	}
	return c, nil
}
