package controller

import (
	"strconv"

	"collab-service/catalog"
	"collab-service/database"
	"collab-service/notification"

	"github.com/gofiber/fiber/v2"
)

func catalogResolver() *catalog.Resolver {
	return catalog.NewResolver(database.Postgres)
}

func notificationStore() *notification.Store {
	return notification.NewStore(database.Postgres, catalogResolver())
}

func NotificationList(c *fiber.Ctx) error {
	page, perPage := pageParams(c)
	notifications, total, pages, err := notificationStore().List(userIDFromCtx(c), page, perPage)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{
		"notifications": notifications,
		"total":         total,
		"total_pages":   pages,
		"page":          page,
		"per_page":      perPage,
	})
}

func NotificationUnread(c *fiber.Ctx) error {
	notifications, err := notificationStore().ListUnread(userIDFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, notifications)
}

func NotificationMarkRead(c *fiber.Ctx) error {
	notificationID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Malformed notification id",
			"data":    nil,
		})
	}

	flipped, err := notificationStore().MarkRead(uint(notificationID), userIDFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	if !flipped {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "No unread notification with this id",
			"data":    nil,
		})
	}
	return ok(c, nil)
}

func NotificationMarkAllRead(c *fiber.Ctx) error {
	count, err := notificationStore().MarkAllRead(userIDFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"read": count})
}

func NotificationClear(c *fiber.Ctx) error {
	if err := notificationStore().ClearAll(userIDFromCtx(c)); err != nil {
		return fail(c, err)
	}
	return ok(c, nil)
}
