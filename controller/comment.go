package controller

import (
	"strconv"

	"collab-service/comment"
	"collab-service/database"
	"collab-service/model"
	"collab-service/notification"
	"collab-service/socketio"

	"github.com/gofiber/fiber/v2"
)

type CommentCreateInput struct {
	ItemID          uint    `json:"item_id"`
	ItemType        string  `json:"item_type"`
	Content         string  `json:"content"`
	ParentCommentID *uint   `json:"parent_comment_id"`
	ContentType     string  `json:"content_type"`
	Category        *string `json:"category"`
}

type CommentUpdateInput struct {
	Content string `json:"content"`
}

// CommentList returns the threaded tree for one item, paginated over
// top-level threads only.
func CommentList(c *fiber.Ctx) error {
	itemID, err := strconv.ParseUint(c.Params("itemID"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Malformed item id",
			"data":    nil,
		})
	}
	itemType := c.Params("itemType")

	store := comment.NewStore(database.Postgres)
	flat, err := store.ListForItem(uint(itemID), itemType)
	if err != nil {
		return fail(c, err)
	}

	page, perPage := pageParams(c)
	top := comment.BuildHierarchy(flat)
	paged, total, pages := comment.PaginateTopLevel(top, page, perPage)

	return ok(c, fiber.Map{
		"comments":    paged,
		"total":       total,
		"total_pages": pages,
		"page":        page,
		"per_page":    perPage,
	})
}

// CommentCreate stores the comment and fans a notification out to every
// watcher of the item's content scope.
func CommentCreate(c *fiber.Ctx) error {
	input := new(CommentCreateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	userID := userIDFromCtx(c)
	store := comment.NewStore(database.Postgres)
	created, err := store.Create(userID, input.ItemID, input.ItemType, input.Content, input.ParentCommentID)
	if err != nil {
		return fail(c, err)
	}

	if input.ContentType != "" {
		watch := notification.NewWatchRegistry(database.Postgres)
		notifications := notification.NewStore(database.Postgres, catalogResolver())
		fanout := notification.NewFanout(watch, notifications, socketio.RoomPusher{})
		if _, err := fanout.NotifyWatchers(notification.ContentEvent{
			ActorID:     userID,
			Type:        "comment",
			Message:     created.User.Username + " commented",
			ItemID:      created.ID,
			ItemType:    model.ItemTypeComment,
			ContentType: input.ContentType,
			Category:    input.Category,
		}); err != nil {
			return fail(c, err)
		}
	}

	return ok(c, created)
}

func CommentUpdate(c *fiber.Ctx) error {
	commentID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Malformed comment id",
			"data":    nil,
		})
	}

	input := new(CommentUpdateInput)
	if err := c.BodyParser(input); err != nil || input.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	store := comment.NewStore(database.Postgres)
	updated, err := store.Update(uint(commentID), userIDFromCtx(c), input.Content)
	if err != nil {
		return fail(c, err)
	}
	if !updated {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": "Not the comment author",
			"data":    nil,
		})
	}
	return ok(c, nil)
}

// CommentDelete removes a comment tree; authors may delete their own,
// admins may delete any.
func CommentDelete(c *fiber.Ctx) error {
	commentID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Malformed comment id",
			"data":    nil,
		})
	}

	store := comment.NewStore(database.Postgres)
	deleted, err := store.Delete(uint(commentID), userIDFromCtx(c), roleFromCtx(c) == "admin")
	if err != nil {
		return fail(c, err)
	}
	if !deleted {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": "Not the comment author",
			"data":    nil,
		})
	}
	return ok(c, nil)
}
