// websocket/updates.go
package websocket

import (
	"encoding/json"
	"log"
	"time"

	"assetdesk/models"
	"assetdesk/store"
)

// CollectionUpdate is the wire shape pushed to clients on every committed
// change, so subscribed UI surfaces re-render the affected collection.
type CollectionUpdate struct {
	Type       string      `json:"type"` // DOC_SET, DOC_UPDATED, DOC_DELETED
	Collection string      `json:"collection"`
	ID         string      `json:"id"`
	Data       interface{} `json:"data,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

func updateType(eventType string) string {
	switch eventType {
	case "set":
		return "DOC_SET"
	case "update":
		return "DOC_UPDATED"
	case "delete":
		return "DOC_DELETED"
	}
	return "DOC_CHANGED"
}

// RunStoreFeed bridges store change events into the hub. One goroutine per
// environment/collection pair; runs for the life of the process.
func RunStoreFeed(s store.Store) {
	for _, env := range []store.Environment{store.EnvLive, store.EnvSandbox} {
		for _, collection := range models.AllCollections {
			if collection == models.ColUsers {
				// user docs carry credential hashes; never pushed to clients
				continue
			}
			ch, _ := s.Subscribe(env, collection)
			go func(env store.Environment, ch <-chan store.Event) {
				for ev := range ch {
					payload := CollectionUpdate{
						Type:       updateType(ev.Type),
						Collection: ev.Collection,
						ID:         ev.ID,
						Data:       ev.Doc,
						Timestamp:  ev.At,
					}
					data, err := json.Marshal(payload)
					if err != nil {
						log.Printf("websocket: marshal update failed: %v", err)
						continue
					}
					broadcast(string(env), data)
				}
			}(env, ch)
		}
	}
}
