package controller

import (
	"collab-service/database"
	"collab-service/notification"

	"github.com/gofiber/fiber/v2"
)

type WatchPreferenceInput struct {
	ContentType string  `json:"content_type"`
	Category    *string `json:"category"`
}

func WatchPreferenceList(c *fiber.Ctx) error {
	registry := notification.NewWatchRegistry(database.Postgres)
	prefs, err := registry.ListForUser(userIDFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, prefs)
}

func WatchPreferenceAdd(c *fiber.Ctx) error {
	input := new(WatchPreferenceInput)
	if err := c.BodyParser(input); err != nil || input.ContentType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	registry := notification.NewWatchRegistry(database.Postgres)
	pref, err := registry.Add(userIDFromCtx(c), input.ContentType, input.Category)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, pref)
}

func WatchPreferenceRemove(c *fiber.Ctx) error {
	input := new(WatchPreferenceInput)
	if err := c.BodyParser(input); err != nil || input.ContentType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	registry := notification.NewWatchRegistry(database.Postgres)
	removed, err := registry.Remove(userIDFromCtx(c), input.ContentType, input.Category)
	if err != nil {
		return fail(c, err)
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "No matching watch preference",
			"data":    nil,
		})
	}
	return ok(c, nil)
}
