package router

import (
	"collab-service/controller"
	"collab-service/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func Rest(app *fiber.App) {
	api := app.Group("/v1", logger.New())

	// Auth
	auth := api.Group("/auth")
	auth.Post("/signup", controller.AuthSignup)
	auth.Post("/signin", controller.AuthSignin)
	auth.Post("/token/renew", controller.AuthTokenRenew)
	auth.Post("/2fa/verify", middleware.JWT(), middleware.OTP(), controller.AuthOtpVerify)
	auth.Post("/2fa/validate", middleware.JWT(), controller.AuthOtpValidate)

	// User
	user := api.Group("/user", middleware.JWT(), middleware.OTP())
	user.Get("/profile", controller.UserProfile)

	// Chat
	chat := api.Group("/chat", middleware.JWT(), middleware.OTP())
	chat.Get("/conversations", controller.ChatConversations)
	chat.Post("/conversations", controller.ChatConversationCreate)
	chat.Get("/conversations/:id/messages", controller.ChatMessages)
	chat.Post("/conversations/:id/messages", controller.ChatMessageSend)
	chat.Post("/conversations/:id/read", controller.ChatMarkRead)
	chat.Delete("/conversations/:id/messages", controller.ChatClearMessages)
	chat.Get("/unread", controller.ChatUnread)

	// Comments
	comments := api.Group("/comments", middleware.JWT(), middleware.OTP())
	comments.Post("/create", controller.CommentCreate)
	comments.Get("/:itemType/:itemID", controller.CommentList)
	comments.Put("/:id", controller.CommentUpdate)
	comments.Delete("/:id", controller.CommentDelete)

	// Notifications
	notifications := api.Group("/notifications", middleware.JWT(), middleware.OTP())
	notifications.Get("/list", controller.NotificationList)
	notifications.Get("/unread", controller.NotificationUnread)
	notifications.Post("/read", controller.NotificationMarkAllRead)
	notifications.Post("/:id/read", controller.NotificationMarkRead)
	notifications.Delete("/clear", controller.NotificationClear)

	// Watch preferences
	watch := api.Group("/watch", middleware.JWT(), middleware.OTP())
	watch.Get("/preferences", controller.WatchPreferenceList)
	watch.Post("/preferences", controller.WatchPreferenceAdd)
	watch.Delete("/preferences", controller.WatchPreferenceRemove)

	// Admin
	admin := api.Group("/admin", middleware.JWT(), middleware.OTP(), middleware.RBAC())
	admin.Delete("/comments/:id", controller.CommentDelete)
}
