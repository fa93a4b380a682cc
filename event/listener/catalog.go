package listener

import (
	"encoding/json"
	"log"

	"collab-service/event"
	"collab-service/notification"
)

var (
	CatalogChannel = make(chan event.EventChannelData)
)

// ContentCreatedPayload mirrors what the catalog service publishes when a
// document, patch, link or misc file lands.
type ContentCreatedPayload struct {
	ActorID     uint    `json:"actor_id"`
	ItemID      uint    `json:"item_id"`
	ItemType    string  `json:"item_type"`
	ContentType string  `json:"content_type"`
	Category    *string `json:"category"`
	Message     string  `json:"message"`
}

type UserRegisteredPayload struct {
	UserID uint `json:"user_id"`
}

// Catalog consumes the catalog queue: content events fan out to watchers,
// account events seed the starter watch preferences.
func Catalog(fanout *notification.Fanout, watch *notification.WatchRegistry) {
	for ev := range CatalogChannel {
		switch ev.Action {
		case "content_created":
			payload := ContentCreatedPayload{}
			if err := json.Unmarshal(ev.Data, &payload); err != nil {
				log.Printf("catalog listener: malformed content_created payload: %v", err)
				continue
			}
			if _, err := fanout.NotifyWatchers(notification.ContentEvent{
				ActorID:     payload.ActorID,
				Type:        "content_created",
				Message:     payload.Message,
				ItemID:      payload.ItemID,
				ItemType:    payload.ItemType,
				ContentType: payload.ContentType,
				Category:    payload.Category,
			}); err != nil {
				log.Printf("catalog listener: fan-out failed: %v", err)
			}
		case "user_registered":
			payload := UserRegisteredPayload{}
			if err := json.Unmarshal(ev.Data, &payload); err != nil {
				log.Printf("catalog listener: malformed user_registered payload: %v", err)
				continue
			}
			if err := watch.SeedDefaults(payload.UserID); err != nil {
				log.Printf("catalog listener: seeding defaults for user %d failed: %v", payload.UserID, err)
			}
		default:
			log.Printf("catalog listener: ignoring unknown action %q", ev.Action)
		}
	}
}
