// Package mongostore implements the durable document store on MongoDB.
//
// Construction never fails on an unreachable server: the driver connects
// lazily, and Ready gates every request-path use. The process must come up
// and serve from the fallback store when MongoDB is down.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/prensprays-byte/library-inventory-system/internal/store"
	"github.com/prensprays-byte/library-inventory-system/pkg/config"
	"github.com/prensprays-byte/library-inventory-system/pkg/logger"
)

// Collection names.
const (
	ColUsers = "users"
	ColBooks = "books"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    config.MongoConfig
	logg   *logger.Logger

	mu        sync.Mutex
	ready     bool
	lastCheck time.Time
	indexed   bool
}

// NewStore builds the MongoDB-backed store. The URI must be non-empty; the
// server does not need to be reachable yet.
func NewStore(cfg config.MongoConfig, logg *logger.Logger) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongostore: uri is required")
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(cfg.Database),
		cfg:    cfg,
		logg:   logg,
	}, nil
}

// Ready pings the server with a bounded timeout. The result is cached
// briefly so the request path does not pay a round trip per call. Indexes are
// created once, on the first successful check.
func (s *Store) Ready(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Since(s.lastCheck) < s.cfg.ReadyCacheTTL {
		return s.ready
	}

	pingCtx, cancel := context.WithTimeout(ctx, s.cfg.PingTimeout)
	defer cancel()
	err := s.client.Ping(pingCtx, nil)
	s.lastCheck = time.Now()
	s.ready = err == nil

	if s.ready && !s.indexed {
		if err := s.ensureIndexes(ctx); err != nil {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "mongostore: ensure indexes failed")
			}
		} else {
			s.indexed = true
		}
	}
	return s.ready
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "created_at", Value: -1}}, false},
		{ColBooks, bson.D{{Key: "created_at", Value: -1}}, false},
		{ColBooks, bson.D{{Key: "title", Value: 1}, {Key: "author", Value: 1}}, false},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}
	return nil
}

// wrapError converts driver errors into domain errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrEmailExists
	}
	return err
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.D) (*T, error) {
	var result T
	if err := col.FindOne(ctx, filter).Decode(&result); err != nil {
		return nil, wrapError(err)
	}
	return &result, nil
}

func findMany[T any](ctx context.Context, col *mongo.Collection, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]*T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, wrapError(err)
	}
	defer cursor.Close(ctx)

	var results []*T
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		results = append(results, &item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	if results == nil {
		results = []*T{}
	}
	return results, nil
}
