package controller

import (
	"strconv"

	"collab-service/database"
	"collab-service/messenger"
	"collab-service/socketio"

	"github.com/gofiber/fiber/v2"
)

type ChatConversationInput struct {
	UserID uint `json:"user_id"`
}

type ChatMessageInput struct {
	Content  string `json:"content"`
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
	FileType string `json:"file_type"`
}

type UnreadCountPayload struct {
	Count int64 `json:"count"`
}

func ChatConversations(c *fiber.Ctx) error {
	ledger := messenger.NewLedger(database.Postgres)
	summaries, err := ledger.ListConversationsForUser(userIDFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, summaries)
}

func ChatConversationCreate(c *fiber.Ctx) error {
	input := new(ChatConversationInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}

	ledger := messenger.NewLedger(database.Postgres)
	conv, err := ledger.GetOrCreateConversation(userIDFromCtx(c), input.UserID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, conv)
}

func ChatMessages(c *fiber.Ctx) error {
	conversationID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Malformed conversation id",
			"data":    nil,
		})
	}

	ledger := messenger.NewLedger(database.Postgres)
	if _, err := ledger.AuthorizeParticipant(uint(conversationID), userIDFromCtx(c)); err != nil {
		return fail(c, err)
	}

	page, perPage := pageParams(c)
	messages, err := ledger.ListMessages(uint(conversationID), perPage, (page-1)*perPage)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, messages)
}

func ChatMessageSend(c *fiber.Ctx) error {
	conversationID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Malformed conversation id",
			"data":    nil,
		})
	}

	input := new(ChatMessageInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Review your input",
			"data":    nil,
		})
	}
	if input.Content == "" && input.FileURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Message needs content or a file",
			"data":    nil,
		})
	}

	senderID := userIDFromCtx(c)
	ledger := messenger.NewLedger(database.Postgres)

	// Senders may only post into conversations they belong to; the other
	// participant is the recipient.
	conv, err := ledger.AuthorizeParticipant(uint(conversationID), senderID)
	if err != nil {
		return fail(c, err)
	}
	recipientID := conv.OtherParticipant(senderID)

	var file *messenger.FileMeta
	if input.FileURL != "" {
		file = &messenger.FileMeta{Name: input.FileName, URL: input.FileURL, Type: input.FileType}
	}

	msg, err := ledger.SendMessage(uint(conversationID), senderID, recipientID, input.Content, file)
	if err != nil {
		return fail(c, err)
	}

	socketio.Emit(strconv.FormatUint(uint64(recipientID), 10), "chat_message", msg)
	if count, err := ledger.TotalUnreadForUser(recipientID); err == nil {
		socketio.Emit(strconv.FormatUint(uint64(recipientID), 10), "unread_chat_count", UnreadCountPayload{Count: count})
	}

	return ok(c, msg)
}

func ChatMarkRead(c *fiber.Ctx) error {
	conversationID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Malformed conversation id",
			"data":    nil,
		})
	}

	readerID := userIDFromCtx(c)
	ledger := messenger.NewLedger(database.Postgres)
	count, flipped, err := ledger.MarkRead(uint(conversationID), readerID)
	if err != nil {
		return fail(c, err)
	}

	if unread, err := ledger.TotalUnreadForUser(readerID); err == nil {
		socketio.Emit(strconv.FormatUint(uint64(readerID), 10), "unread_chat_count", UnreadCountPayload{Count: unread})
	}
	for _, m := range flipped {
		socketio.Emit(strconv.FormatUint(uint64(m.SenderID), 10), "chat_message_read", m)
	}

	return ok(c, fiber.Map{"read": count})
}

func ChatClearMessages(c *fiber.Ctx) error {
	conversationID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Malformed conversation id",
			"data":    nil,
		})
	}

	ledger := messenger.NewLedger(database.Postgres)
	if _, err := ledger.AuthorizeParticipant(uint(conversationID), userIDFromCtx(c)); err != nil {
		return fail(c, err)
	}
	if err := ledger.ClearMessages(uint(conversationID)); err != nil {
		return fail(c, err)
	}
	return ok(c, nil)
}

func ChatUnread(c *fiber.Ctx) error {
	ledger := messenger.NewLedger(database.Postgres)
	count, err := ledger.TotalUnreadForUser(userIDFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, UnreadCountPayload{Count: count})
}
