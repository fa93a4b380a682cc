package controller

import (
	"collab-service/database"
	"collab-service/model"

	"github.com/gofiber/fiber/v2"
)

func UserProfile(c *fiber.Ctx) error {
	user := new(model.User)

	if err := database.Postgres.First(&user, userIDFromCtx(c)).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal server error",
			"data":    nil,
		})
	}

	return ok(c, fiber.Map{
		"id":            user.ID,
		"created":       user.CreatedAt.Unix(),
		"username":      user.Username,
		"email":         user.Email,
		"role":          user.Role,
		"profile_image": user.ProfileImage,
		"online":        user.Online,
		"otp":           user.Otp_enabled,
	})
}
