package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"collab-service/catalog"
	"collab-service/config"
	"collab-service/database"
	"collab-service/event"
	"collab-service/event/listener"
	"collab-service/notification"
	"collab-service/router"
	"collab-service/socketio"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	log.SetPrefix("collab-service: ")

	rest := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		StrictRouting:         true,
		AppName:               "collab-service",
	})

	rest.Use(cors.New())

	database.RedisConnect()
	database.PostgresConnect()

	event.RabbitMQConnect([]string{
		// Connect to queues
		"catalog",
		"accounts",
	})

	// Run the catalog listener: content events fan out to watchers,
	// account events seed default watch preferences.
	watch := notification.NewWatchRegistry(database.Postgres)
	store := notification.NewStore(database.Postgres, catalog.NewResolver(database.Postgres))
	fanout := notification.NewFanout(watch, store, socketio.RoomPusher{})
	go listener.Catalog(fanout, watch)

	// Subscribe listener channel to "catalog" events
	event.RabbitMQSubscribe([]event.RabbitMQSubscribeListener{
		{
			Queue:   "catalog",
			Channel: listener.CatalogChannel,
		},
	})

	socket := socketio.Init(rest)

	router.Rest(rest)
	router.Socket(socket)

	go rest.Listen(fmt.Sprintf(":%s", config.Config("SERVER_PORT")))

	exit := make(chan struct{})
	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				close(exit)
				return
			}
		}
	}()

	<-exit
	socket.Close(nil)
	event.RabbitMQChannel.Close()
	event.RabbitMQConnection.Close()
	event.InLogFile.Close()
	event.OutLogFile.Close()
	os.Exit(0)
}
