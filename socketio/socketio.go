package socketio

import (
	"context"
	"strconv"
	"time"

	"collab-service/config"
	"collab-service/database"
	"collab-service/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/socket.io-go-redis/adapter"
	r_type "github.com/zishang520/socket.io-go-redis/types"
	"github.com/zishang520/socket.io/v2/socket"
)

var server *socket.Server

func Init(app *fiber.App) *socket.Server {
	if config.Config("SOCKET_DEBUG") == "true" {
		log.DEBUG = true
	}

	options := socket.DefaultServerOptions()
	options.SetServeClient(true)
	options.SetAllowEIO3(true)
	options.SetPingInterval(25 * time.Second)
	options.SetPingTimeout(20 * time.Second)
	options.SetConnectTimeout(5 * time.Second)
	options.SetAdapter(&adapter.RedisAdapterBuilder{
		Redis: r_type.NewRedisClient(context.Background(), database.Redis[1]),
		Opts:  &adapter.RedisAdapterOptions{},
	})

	server = socket.NewServer(nil, nil)

	// Handshake: a valid access token joins the socket to the user's
	// private room; unauthenticated sockets stay connected but roomless.
	server.Use(func(client *socket.Socket, next func(*socket.ExtendedError)) {
		token, auth := client.Conn().Request().Query().Get("token")

		if auth {
			claims, err := utils.CheckAndExtractTokenMetadata(token, "JWT_ACCESS_KEY")

			if err == nil {
				if !claims.Otp {
					client.Join(UserRoom(claims.Id))
					client.SetData(claims)
				}
			}
		}

		next(nil)
	})

	app.Get("/socket.io/", adaptor.HTTPHandler(server.ServeHandler(options)))
	app.Post("/socket.io/", adaptor.HTTPHandler(server.ServeHandler(options)))

	return server
}

// UserRoom is the private per-user channel address.
func UserRoom(id string) socket.Room {
	return socket.Room("user_" + id)
}

// Broadcast emits to every connected socket.
func Broadcast(event string, message any) {
	server.FetchSockets()(func(sockets []*socket.RemoteSocket, _ error) {
		for _, socket := range sockets {
			socket.Emit(event, message)
		}
	})
}

// Emit pushes to one user's private room. Delivery to a user with no
// open sockets is silently dropped.
func Emit(id string, event string, message any) {
	server.To(UserRoom(id)).Emit(event, message)
}

// RoomPusher adapts Emit to the notification fan-out engine's Pusher.
type RoomPusher struct{}

func (RoomPusher) Push(userID uint, event string, payload any) {
	Emit(strconv.FormatUint(uint64(userID), 10), event, payload)
}
