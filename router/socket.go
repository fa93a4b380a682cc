package router

import (
	"context"
	"strconv"
	"time"

	"collab-service/database"
	"collab-service/messenger"
	"collab-service/model"
	"collab-service/presence"
	"collab-service/socketio"
	"collab-service/utils"

	"github.com/zishang520/socket.io/v2/socket"
)

type ChatUser struct {
	Id           uint   `json:"id"`
	Username     string `json:"username"`
	ProfileImage string `json:"profile_image"`
}

type ChatMessage struct {
	Id           uint      `json:"id"`
	Created      time.Time `json:"created"`
	Conversation uint      `json:"conversation"`
	From         ChatUser  `json:"from"`
	To           ChatUser  `json:"to"`
	Content      string    `json:"content"`
	Read         bool      `json:"read"`
	FileName     string    `json:"file_name"`
	FileURL      string    `json:"file_url"`
	FileType     string    `json:"file_type"`
}

type ChatConversation struct {
	Id      uint         `json:"id"`
	Partner ChatUser     `json:"partner"`
	Message *ChatMessage `json:"message"`
	Unread  int64        `json:"unread"`
}

type ChatUserStatus struct {
	Id     uint `json:"id"`
	Status bool `json:"status"`
}

type UnreadCount struct {
	Count int64 `json:"count"`
}

type OnlineCount struct {
	Count int64 `json:"count"`
}

func userView(u model.User) ChatUser {
	return ChatUser{
		Id:           u.ID,
		Username:     u.Username,
		ProfileImage: u.ProfileImage,
	}
}

func messageView(m model.Message) ChatMessage {
	return ChatMessage{
		Id:           m.ID,
		Created:      m.CreatedAt,
		Conversation: m.ConversationID,
		From:         userView(m.Sender),
		To:           userView(m.Recipient),
		Content:      m.Content,
		Read:         m.IsRead,
		FileName:     m.FileName,
		FileURL:      m.FileURL,
		FileType:     m.FileType,
	}
}

func room(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

// stringArg fetches one socket.io argument as a string. Clients control
// the payload, so a missing or non-string argument must not panic the
// handler.
func stringArg(args []interface{}, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(string)
	return s, ok
}

func Socket(server *socket.Server) {
	server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)
		ledger := messenger.NewLedger(database.Postgres)
		tracker := presence.NewTracker(database.Redis[0], database.Postgres)
		ctx := context.Background()

		if client.Data() != nil {
			userID := client.Data().(*utils.TokenMetadata).UserID()

			// The connecting user's unread badge goes out before any
			// other traffic on this socket.
			if count, err := ledger.TotalUnreadForUser(userID); err == nil {
				client.Emit("unread_chat_count", UnreadCount{Count: count})
			}

			if online, err := tracker.Connect(ctx, userID); err == nil {
				socketio.Broadcast("online_users_count", OnlineCount{Count: online})
			}

			// The close hook fires on graceful and ungraceful disconnects
			// alike, so a crashed client still releases its connection.
			drop := func(args ...interface{}) {
				if online, err := tracker.Disconnect(ctx, userID); err == nil {
					socketio.Broadcast("online_users_count", OnlineCount{Count: online})
				}
			}
			client.On("disconnect", drop)
			client.On("logout", drop)
		}

		client.On("chat_conversations", func(args ...interface{}) {
			if client.Data() == nil {
				return
			}
			userID := client.Data().(*utils.TokenMetadata).UserID()

			summaries, err := ledger.ListConversationsForUser(userID)
			if err != nil {
				return
			}

			conversations := []ChatConversation{}
			statuses := []ChatUserStatus{}
			for _, summary := range summaries {
				view := ChatConversation{
					Id:      summary.Conversation.ID,
					Partner: userView(summary.Partner),
					Unread:  summary.UnreadCount,
				}
				if summary.LastMessage != nil {
					message := messageView(*summary.LastMessage)
					view.Message = &message
				}
				conversations = append(conversations, view)

				online, _ := tracker.IsOnline(ctx, summary.Partner.ID)
				statuses = append(statuses, ChatUserStatus{
					Id:     summary.Partner.ID,
					Status: online,
				})
			}

			client.Emit("chat_conversations", conversations)
			client.Emit("chat_user_status", statuses)
		})

		client.On("chat_messages", func(args ...interface{}) {
			if client.Data() == nil {
				return
			}
			userID := client.Data().(*utils.TokenMetadata).UserID()

			raw, ok := stringArg(args, 0)
			if !ok {
				return
			}
			conversationID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return
			}
			if _, err := ledger.AuthorizeParticipant(uint(conversationID), userID); err != nil {
				return
			}

			limit := 50
			offset := 0
			if rawPage, ok := stringArg(args, 1); ok {
				if page, err := strconv.Atoi(rawPage); err == nil && page > 1 {
					offset = (page - 1) * limit
				}
			}

			messages, err := ledger.ListMessages(uint(conversationID), limit, offset)
			if err != nil {
				return
			}

			views := []ChatMessage{}
			for _, m := range messages {
				views = append(views, messageView(m))
			}
			client.Emit("chat_messages", views)
		})

		client.On("chat_send_message", func(args ...interface{}) {
			if client.Data() == nil {
				return
			}
			senderID := client.Data().(*utils.TokenMetadata).UserID()

			raw, ok := stringArg(args, 0)
			if !ok {
				return
			}
			conversationID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return
			}
			content, ok := stringArg(args, 1)
			if !ok {
				return
			}

			var file *messenger.FileMeta
			if len(args) >= 5 {
				name, okName := stringArg(args, 2)
				url, okURL := stringArg(args, 3)
				fileType, okType := stringArg(args, 4)
				if !okName || !okURL || !okType {
					return
				}
				file = &messenger.FileMeta{Name: name, URL: url, Type: fileType}
			}
			if content == "" && file == nil {
				return
			}

			conv, err := ledger.AuthorizeParticipant(uint(conversationID), senderID)
			if err != nil {
				return
			}
			recipientID := conv.OtherParticipant(senderID)

			message, err := ledger.SendMessage(uint(conversationID), senderID, recipientID, content, file)
			if err != nil {
				return
			}

			view := messageView(*message)
			client.Emit("chat_message", view)
			socketio.Emit(room(recipientID), "chat_message", view)

			// Unread push is private to the recipient, never broadcast.
			if count, err := ledger.TotalUnreadForUser(recipientID); err == nil {
				socketio.Emit(room(recipientID), "unread_chat_count", UnreadCount{Count: count})
			}
		})

		client.On("chat_mark_read", func(args ...interface{}) {
			if client.Data() == nil {
				return
			}
			readerID := client.Data().(*utils.TokenMetadata).UserID()

			raw, ok := stringArg(args, 0)
			if !ok {
				return
			}
			conversationID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return
			}

			_, flipped, err := ledger.MarkRead(uint(conversationID), readerID)
			if err != nil {
				return
			}

			if count, err := ledger.TotalUnreadForUser(readerID); err == nil {
				client.Emit("unread_chat_count", UnreadCount{Count: count})
			}

			// One read receipt per flipped message back to its sender.
			for _, m := range flipped {
				socketio.Emit(room(m.SenderID), "chat_message_read", messageView(m))
			}
		})

		client.On("chat_user_status", func(args ...interface{}) {
			if client.Data() == nil {
				return
			}
			userID := client.Data().(*utils.TokenMetadata).UserID()

			summaries, err := ledger.ListConversationsForUser(userID)
			if err != nil {
				return
			}

			statuses := []ChatUserStatus{}
			for _, summary := range summaries {
				online, _ := tracker.IsOnline(ctx, summary.Partner.ID)
				statuses = append(statuses, ChatUserStatus{
					Id:     summary.Partner.ID,
					Status: online,
				})
			}
			client.Emit("chat_user_status", statuses)
		})
	})
}
