// Package realtime implements the change-notification hub: every successful
// mutation announces the affected collection, and subscribers re-fetch the
// whole collection in response. Events carry no row data on purpose.
package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Collections that can be watched.
const (
	CollectionTasks         = "tasks"
	CollectionAnnouncements = "announcements"
	CollectionEvents        = "events"
	CollectionNotifications = "notifications"
	CollectionWikiPages     = "wiki_pages"
	CollectionSubmissions   = "ctf_submissions"
)

var collections = map[string]bool{
	CollectionTasks:         true,
	CollectionAnnouncements: true,
	CollectionEvents:        true,
	CollectionNotifications: true,
	CollectionWikiPages:     true,
	CollectionSubmissions:   true,
}

// Known reports whether name is a watchable collection.
func Known(name string) bool { return collections[name] }

// Change signals that some row in Collection was inserted, updated or deleted.
type Change struct {
	Collection string    `json:"collection"`
	At         time.Time `json:"at"`
}

// Hub fans mutation signals out to per-collection subscribers over an
// in-process watermill pub/sub.
type Hub struct {
	pubsub *gochannel.GoChannel
}

func NewHub() *Hub {
	return &Hub{pubsub: gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})}
}

// Publish announces a change on the named collection. Best effort: the
// mutation is already durable by the time this is called, so a failed or
// dropped signal only delays subscribers until their next full fetch.
func (h *Hub) Publish(collection string) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(Change{Collection: collection, At: time.Now().UTC()})
	if err != nil {
		return
	}
	_ = h.pubsub.Publish(topic(collection), message.NewMessage(watermill.NewUUID(), payload))
}

// Subscribe returns a channel of changes on the named collection. The channel
// is closed when ctx is cancelled; cancelling is how a consumer tears the
// subscription down.
func (h *Hub) Subscribe(ctx context.Context, collection string) (<-chan Change, error) {
	msgs, err := h.pubsub.Subscribe(ctx, topic(collection))
	if err != nil {
		return nil, err
	}

	ch := make(chan Change)
	go func() {
		defer close(ch)
		for msg := range msgs {
			var change Change
			if err := json.Unmarshal(msg.Payload, &change); err != nil {
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case ch <- change:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func (h *Hub) Close() error {
	return h.pubsub.Close()
}

func topic(collection string) string {
	return "changes." + collection
}
