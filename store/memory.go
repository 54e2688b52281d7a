package store

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"assetdesk/apperr"
)

// MemoryStore is an in-process Store with the same semantics as the mongo
// implementation: namespaced collections, equality filters, atomic batches,
// change events. Used by tests and local development.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]Doc // collection name -> id -> doc
	bc   *broadcaster
}

func NewMemory() *MemoryStore {
	return &MemoryStore{data: map[string]map[string]Doc{}, bc: newBroadcaster()}
}

func cloneDoc(doc Doc) Doc {
	raw, _ := bson.Marshal(doc)
	var out Doc
	_ = bson.Unmarshal(raw, &out)
	return out
}

func matches(doc Doc, filter Doc) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok {
			return false
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// sortLess orders the value types a sort field can hold.
func sortLess(a, b interface{}) bool {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return av < bv
	case primitive.DateTime:
		bv, _ := b.(primitive.DateTime)
		return av < bv
	case int32:
		bv, _ := b.(int32)
		return av < bv
	case int64:
		bv, _ := b.(int64)
		return av < bv
	case float64:
		bv, _ := b.(float64)
		return av < bv
	}
	return false
}

func (s *MemoryStore) Get(ctx context.Context, env Environment, collection, id string) (Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.data[env.CollectionName(collection)][id]
	if !ok {
		return nil, apperr.NotFound("%s/%s", collection, id)
	}
	return cloneDoc(doc), nil
}

func (s *MemoryStore) Query(ctx context.Context, env Environment, collection string, filter Doc, opts *QueryOptions) ([]Doc, error) {
	s.mu.RLock()
	var out []Doc
	for _, doc := range s.data[env.CollectionName(collection)] {
		if filter == nil || matches(doc, filter) {
			out = append(out, cloneDoc(doc))
		}
	}
	s.mu.RUnlock()

	if opts != nil && opts.SortField != "" {
		field, desc := opts.SortField, opts.SortDesc
		sort.SliceStable(out, func(i, j int) bool {
			less := sortLess(out[i][field], out[j][field])
			if desc {
				return sortLess(out[j][field], out[i][field])
			}
			return less
		})
	}
	if opts != nil && opts.Limit > 0 && int64(len(out)) > opts.Limit {
		out = out[:opts.Limit]
	}
	if out == nil {
		out = []Doc{}
	}
	return out, nil
}

func (s *MemoryStore) put(env Environment, collection, id string, doc Doc) {
	name := env.CollectionName(collection)
	if s.data[name] == nil {
		s.data[name] = map[string]Doc{}
	}
	stored := cloneDoc(Sanitize(doc))
	stored["_id"] = id
	s.data[name][id] = stored
}

func (s *MemoryStore) Set(ctx context.Context, env Environment, collection, id string, doc Doc) error {
	s.mu.Lock()
	s.put(env, collection, id, doc)
	s.mu.Unlock()
	s.bc.publish(Event{Env: env, Collection: collection, Type: "set", ID: id, Doc: doc, At: time.Now().UTC()})
	return nil
}

func (s *MemoryStore) merge(env Environment, collection, id string, fields Doc) error {
	existing, ok := s.data[env.CollectionName(collection)][id]
	if !ok {
		return apperr.NotFound("%s/%s", collection, id)
	}
	for k, v := range cloneDoc(Sanitize(fields)) {
		existing[k] = v
	}
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, env Environment, collection, id string, fields Doc) error {
	s.mu.Lock()
	err := s.merge(env, collection, id, fields)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.bc.publish(Event{Env: env, Collection: collection, Type: "update", ID: id, Doc: fields, At: time.Now().UTC()})
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, env Environment, collection, id string) error {
	s.mu.Lock()
	delete(s.data[env.CollectionName(collection)], id)
	s.mu.Unlock()
	s.bc.publish(Event{Env: env, Collection: collection, Type: "delete", ID: id, At: time.Now().UTC()})
	return nil
}

func (s *MemoryStore) Subscribe(env Environment, collection string) (<-chan Event, func()) {
	return s.bc.subscribe(env, collection)
}

type memoryBatch struct {
	store *MemoryStore
	ops   []mongoOp
}

func (s *MemoryStore) Batch() Batch {
	return &memoryBatch{store: s}
}

func (b *memoryBatch) Set(env Environment, collection, id string, doc Doc) {
	b.ops = append(b.ops, mongoOp{kind: "set", env: env, col: collection, id: id, doc: Sanitize(doc)})
}

func (b *memoryBatch) Update(env Environment, collection, id string, fields Doc) {
	b.ops = append(b.ops, mongoOp{kind: "update", env: env, col: collection, id: id, doc: Sanitize(fields)})
}

func (b *memoryBatch) Delete(env Environment, collection, id string) {
	b.ops = append(b.ops, mongoOp{kind: "delete", env: env, col: collection, id: id})
}

// Commit validates every update target first so the batch is all-or-nothing.
func (b *memoryBatch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}

	s := b.store
	s.mu.Lock()
	for _, op := range b.ops {
		if op.kind != "update" {
			continue
		}
		if _, ok := s.data[op.env.CollectionName(op.col)][op.id]; !ok {
			willCreate := false
			for _, prior := range b.ops {
				if prior.kind == "set" && prior.env == op.env && prior.col == op.col && prior.id == op.id {
					willCreate = true
					break
				}
			}
			if !willCreate {
				s.mu.Unlock()
				return apperr.NotFound("%s/%s", op.col, op.id)
			}
		}
	}
	for _, op := range b.ops {
		switch op.kind {
		case "set":
			s.put(op.env, op.col, op.id, op.doc)
		case "update":
			_ = s.merge(op.env, op.col, op.id, op.doc)
		case "delete":
			delete(s.data[op.env.CollectionName(op.col)], op.id)
		}
	}
	s.mu.Unlock()

	now := time.Now().UTC()
	for _, op := range b.ops {
		s.bc.publish(Event{Env: op.env, Collection: op.col, Type: op.kind, ID: op.id, Doc: op.doc, At: now})
	}
	return nil
}
