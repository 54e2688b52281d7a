// Package store wraps the document database behind the small set of
// operations the rest of the app is allowed to use: get/query/set/update/
// delete, an atomic multi-document batch, and a change subscription.
//
// Every call names its Environment explicitly; nothing in this package reads
// ambient state to decide which namespace it is writing to.
package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Environment selects the collection namespace. Sandbox data lives in
// collections prefixed with "sandbox_", fully isolated from live data.
type Environment string

const (
	EnvLive    Environment = "live"
	EnvSandbox Environment = "sandbox"
)

// ParseEnvironment maps a request parameter to an Environment, defaulting to live.
func ParseEnvironment(s string) Environment {
	if s == string(EnvSandbox) {
		return EnvSandbox
	}
	return EnvLive
}

// CollectionName applies the namespace prefix.
func (e Environment) CollectionName(name string) string {
	if e == EnvSandbox {
		return "sandbox_" + name
	}
	return name
}

// Doc is a schemaless document.
type Doc = bson.M

// QueryOptions narrows a Query call.
type QueryOptions struct {
	SortField string
	SortDesc  bool
	Limit     int64
}

// Event describes a committed change, delivered to subscribers.
type Event struct {
	Env        Environment `json:"env"`
	Collection string      `json:"collection"`
	Type       string      `json:"type"` // set, update, delete
	ID         string      `json:"id"`
	Doc        Doc         `json:"doc,omitempty"`
	At         time.Time   `json:"at"`
}

// Batch accumulates writes that commit atomically, all or nothing.
type Batch interface {
	Set(env Environment, collection, id string, doc Doc)
	Update(env Environment, collection, id string, fields Doc)
	Delete(env Environment, collection, id string)
	Commit(ctx context.Context) error
}

// Store is the persistence substrate contract.
type Store interface {
	Get(ctx context.Context, env Environment, collection, id string) (Doc, error)
	Query(ctx context.Context, env Environment, collection string, filter Doc, opts *QueryOptions) ([]Doc, error)
	Set(ctx context.Context, env Environment, collection, id string, doc Doc) error
	Update(ctx context.Context, env Environment, collection, id string, fields Doc) error
	Delete(ctx context.Context, env Environment, collection, id string) error
	Batch() Batch

	// Subscribe returns a channel of change events for one collection and a
	// cancel func. Slow consumers drop events rather than block writers.
	Subscribe(env Environment, collection string) (<-chan Event, func())
}

// Decode converts a Doc into a typed record.
func Decode(doc Doc, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// Encode converts a typed record into a Doc, dropping nil fields so a missing
// value is always "absent", never an ambiguous null.
func Encode(v interface{}) (Doc, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Doc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return Sanitize(doc), nil
}

// Sanitize strips nil values before a write.
func Sanitize(doc Doc) Doc {
	out := Doc{}
	for k, v := range doc {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// broadcaster fans change events out to subscribers. Shared by both Store
// implementations.
type broadcaster struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]bool
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: map[string]map[chan Event]bool{}}
}

func topicKey(env Environment, collection string) string {
	return string(env) + "/" + collection
}

func (b *broadcaster) subscribe(env Environment, collection string) (<-chan Event, func()) {
	ch := make(chan Event, 64)
	key := topicKey(env, collection)

	b.mu.Lock()
	if b.subs[key] == nil {
		b.subs[key] = map[chan Event]bool{}
	}
	b.subs[key][ch] = true
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[key]; ok {
			if set[ch] {
				delete(set, ch)
				close(ch)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *broadcaster) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[topicKey(ev.Env, ev.Collection)] {
		select {
		case ch <- ev:
		default:
			// drop for slow consumers; the next snapshot supersedes it anyway
		}
	}
}
