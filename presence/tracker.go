package presence

import (
	"context"
	"log"
	"strconv"

	"collab-service/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Per-user active connection counts live in one Redis hash so every
// server process sees the same presence state. HIncrBy is atomic, which
// keeps concurrent connects/disconnects from the same user from losing
// updates.
const connectionsKey = "presence:connections"

// Tracker maintains who is online. A user is online while they hold at
// least one active connection; the global count is the number of such
// users. First-connect and last-disconnect transitions mirror a boolean
// online flag onto the user row.
type Tracker struct {
	rdb *redis.Client
	db  *gorm.DB
}

func NewTracker(rdb *redis.Client, db *gorm.DB) *Tracker {
	return &Tracker{rdb: rdb, db: db}
}

func field(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

// Connect registers one more connection for the user and returns the
// updated global online count.
func (t *Tracker) Connect(ctx context.Context, userID uint) (int64, error) {
	conns, err := t.rdb.HIncrBy(ctx, connectionsKey, field(userID), 1).Result()
	if err != nil {
		return 0, err
	}
	if conns == 1 {
		t.mirrorOnline(userID, true)
	}
	return t.OnlineCount(ctx)
}

// Disconnect drops one connection for the user; the last one flips them
// offline. Fires on graceful disconnect, explicit logout and the
// connection-close hook alike, so the count never leaks on a crashed
// client. A count that would go negative is clamped at zero and logged.
func (t *Tracker) Disconnect(ctx context.Context, userID uint) (int64, error) {
	conns, err := t.rdb.HIncrBy(ctx, connectionsKey, field(userID), -1).Result()
	if err != nil {
		return 0, err
	}
	if conns <= 0 {
		if conns < 0 {
			log.Printf("presence: connection count for user %d went negative, clamping to zero", userID)
		}
		if err := t.rdb.HDel(ctx, connectionsKey, field(userID)).Err(); err != nil {
			return 0, err
		}
		t.mirrorOnline(userID, false)
	}
	return t.OnlineCount(ctx)
}

// OnlineCount returns the number of users with at least one connection.
func (t *Tracker) OnlineCount(ctx context.Context) (int64, error) {
	return t.rdb.HLen(ctx, connectionsKey).Result()
}

// IsOnline reports whether the user holds any connection.
func (t *Tracker) IsOnline(ctx context.Context, userID uint) (bool, error) {
	return t.rdb.HExists(ctx, connectionsKey, field(userID)).Result()
}

// OnlineUsers returns the ids of every connected user.
func (t *Tracker) OnlineUsers(ctx context.Context) ([]uint, error) {
	fields, err := t.rdb.HKeys(ctx, connectionsKey).Result()
	if err != nil {
		return nil, err
	}
	users := make([]uint, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			continue
		}
		users = append(users, uint(id))
	}
	return users, nil
}

// mirrorOnline is best-effort; Redis stays the source of truth and a
// failed mirror only delays cross-process visibility.
func (t *Tracker) mirrorOnline(userID uint, online bool) {
	if t.db == nil {
		return
	}
	if err := t.db.Model(&model.User{}).Where("id = ?", userID).Update("online", online).Error; err != nil {
		log.Printf("presence: failed to mirror online=%v for user %d: %v", online, userID, err)
	}
}
