package notification

import "log"

// Pusher delivers a realtime event to a user's private channel. A push to
// a user with no open connections is dropped; the stored rows reconcile
// on the next fetch.
type Pusher interface {
	Push(userID uint, event string, payload any)
}

// ContentEvent describes a content mutation that watchers may care about.
type ContentEvent struct {
	ActorID     uint    `json:"actor_id"`
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	ItemID      uint    `json:"item_id"`
	ItemType    string  `json:"item_type"`
	ContentType string  `json:"content_type"`
	Category    *string `json:"category"`
}

// Fanout resolves watchers for a content event, persists one notification
// per watcher and pushes it to their private channel. The acting user is
// never notified about their own event.
type Fanout struct {
	watch *WatchRegistry
	store *Store
	push  Pusher
}

func NewFanout(watch *WatchRegistry, store *Store, push Pusher) *Fanout {
	return &Fanout{watch: watch, store: store, push: push}
}

func (f *Fanout) NotifyWatchers(ev ContentEvent) (int, error) {
	watchers, err := f.watch.ResolveWatchers(ev.ContentType, ev.Category)
	if err != nil {
		return 0, err
	}

	notified := 0
	for _, userID := range watchers {
		if userID == ev.ActorID {
			continue
		}

		n, err := f.store.Notify(userID, ev.Type, ev.Message, ev.ItemID, ev.ItemType, ev.ContentType, ev.Category)
		if err != nil {
			log.Printf("notification fan-out failed for user %d: %v", userID, err)
			return notified, err
		}
		notified++

		if f.push != nil {
			f.push.Push(userID, "notification", f.store.Enrich(*n))
		}
	}
	return notified, nil
}
