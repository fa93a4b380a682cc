package controller

import (
	"strconv"

	"collab-service/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func claimsFromCtx(c *fiber.Ctx) jwt.MapClaims {
	user := c.Locals("user").(*jwt.Token)
	return user.Claims.(jwt.MapClaims)
}

func userIDFromCtx(c *fiber.Ctx) uint {
	id, _ := strconv.ParseUint(claimsFromCtx(c)["id"].(string), 10, 64)
	return uint(id)
}

func roleFromCtx(c *fiber.Ctx) string {
	role, _ := claimsFromCtx(c)["role"].(string)
	return role
}

func pageParams(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", 20)
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

func statusFromError(err error) int {
	switch apperr.CodeOf(err) {
	case apperr.CodeNotFound:
		return fiber.StatusNotFound
	case apperr.CodeForbidden:
		return fiber.StatusForbidden
	case apperr.CodeConflict:
		return fiber.StatusConflict
	case apperr.CodeInvalidArgument:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFromError(err)
	message := "Internal server error"
	if status != fiber.StatusInternalServerError {
		message = err.Error()
	}
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"data":    nil,
	})
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": nil,
		"data":    data,
	})
}
