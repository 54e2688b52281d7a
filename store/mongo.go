package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assetdesk/apperr"
)

// MongoStore implements Store over a mongo database. Collection names are
// resolved through Environment.CollectionName on every call.
type MongoStore struct {
	db *mongo.Database
	bc *broadcaster
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db, bc: newBroadcaster()}
}

func (s *MongoStore) col(env Environment, name string) *mongo.Collection {
	return s.db.Collection(env.CollectionName(name))
}

func (s *MongoStore) Get(ctx context.Context, env Environment, collection, id string) (Doc, error) {
	var doc Doc
	err := s.col(env, collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("%s/%s", collection, id)
		}
		return nil, apperr.Store("get", err)
	}
	return doc, nil
}

func (s *MongoStore) Query(ctx context.Context, env Environment, collection string, filter Doc, opts *QueryOptions) ([]Doc, error) {
	if filter == nil {
		filter = Doc{}
	}
	findOpts := options.Find()
	if opts != nil {
		if opts.SortField != "" {
			dir := 1
			if opts.SortDesc {
				dir = -1
			}
			findOpts.SetSort(bson.D{{Key: opts.SortField, Value: dir}})
		}
		if opts.Limit > 0 {
			findOpts.SetLimit(opts.Limit)
		}
	}

	cursor, err := s.col(env, collection).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, apperr.Store("query", err)
	}
	defer cursor.Close(ctx)

	var docs []Doc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperr.Store("query decode", err)
	}
	if docs == nil {
		docs = []Doc{}
	}
	return docs, nil
}

func (s *MongoStore) Set(ctx context.Context, env Environment, collection, id string, doc Doc) error {
	doc = Sanitize(doc)
	doc["_id"] = id
	_, err := s.col(env, collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return apperr.Store("set", err)
	}
	s.bc.publish(Event{Env: env, Collection: collection, Type: "set", ID: id, Doc: doc, At: time.Now().UTC()})
	return nil
}

func (s *MongoStore) Update(ctx context.Context, env Environment, collection, id string, fields Doc) error {
	res, err := s.col(env, collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": Sanitize(fields)})
	if err != nil {
		return apperr.Store("update", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("%s/%s", collection, id)
	}
	s.bc.publish(Event{Env: env, Collection: collection, Type: "update", ID: id, Doc: fields, At: time.Now().UTC()})
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, env Environment, collection, id string) error {
	_, err := s.col(env, collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Store("delete", err)
	}
	s.bc.publish(Event{Env: env, Collection: collection, Type: "delete", ID: id, At: time.Now().UTC()})
	return nil
}

func (s *MongoStore) Subscribe(env Environment, collection string) (<-chan Event, func()) {
	return s.bc.subscribe(env, collection)
}

type mongoOp struct {
	kind string // set, update, delete
	env  Environment
	col  string
	id   string
	doc  Doc
}

type mongoBatch struct {
	store *MongoStore
	ops   []mongoOp
}

func (s *MongoStore) Batch() Batch {
	return &mongoBatch{store: s}
}

func (b *mongoBatch) Set(env Environment, collection, id string, doc Doc) {
	b.ops = append(b.ops, mongoOp{kind: "set", env: env, col: collection, id: id, doc: Sanitize(doc)})
}

func (b *mongoBatch) Update(env Environment, collection, id string, fields Doc) {
	b.ops = append(b.ops, mongoOp{kind: "update", env: env, col: collection, id: id, doc: Sanitize(fields)})
}

func (b *mongoBatch) Delete(env Environment, collection, id string) {
	b.ops = append(b.ops, mongoOp{kind: "delete", env: env, col: collection, id: id})
}

// Commit applies every accumulated op inside one session transaction.
func (b *mongoBatch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}

	client := b.store.db.Client()
	session, err := client.StartSession()
	if err != nil {
		return apperr.Store("batch session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, op := range b.ops {
			col := b.store.col(op.env, op.col)
			switch op.kind {
			case "set":
				doc := op.doc
				doc["_id"] = op.id
				if _, err := col.ReplaceOne(sc, bson.M{"_id": op.id}, doc, options.Replace().SetUpsert(true)); err != nil {
					return nil, err
				}
			case "update":
				res, err := col.UpdateOne(sc, bson.M{"_id": op.id}, bson.M{"$set": op.doc})
				if err != nil {
					return nil, err
				}
				if res.MatchedCount == 0 {
					return nil, apperr.NotFound("%s/%s", op.col, op.id)
				}
			case "delete":
				if _, err := col.DeleteOne(sc, bson.M{"_id": op.id}); err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	})
	if err != nil {
		return apperr.Store("batch commit", err)
	}

	now := time.Now().UTC()
	for _, op := range b.ops {
		b.store.bc.publish(Event{Env: op.env, Collection: op.col, Type: op.kind, ID: op.id, Doc: op.doc, At: now})
	}
	return nil
}
