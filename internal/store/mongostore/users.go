package mongostore

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/google/uuid"
	"github.com/prensprays-byte/library-inventory-system/internal/store"
)

func (s *Store) CreateUser(ctx context.Context, user *store.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	// The unique index on email is the real guard; the pre-check just gives
	// the common case a clean error without relying on index creation having
	// succeeded yet.
	if _, err := s.GetUserByEmail(ctx, user.Email); err == nil {
		return store.ErrEmailExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	_, err := s.col(ColUsers).InsertOne(ctx, user)
	return wrapError(err)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return findOne[store.User](ctx, s.col(ColUsers), bson.D{{Key: "email", Value: email}})
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*store.User, error) {
	return findOne[store.User](ctx, s.col(ColUsers), bson.D{{Key: "_id", Value: id}})
}

// UpdateUserPassword stores the hash and removes any legacy plaintext field
// in one write, so the migration can never leave both populated.
func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	res, err := s.col(ColUsers).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "password_hash", Value: passwordHash},
				{Key: "updated_at", Value: time.Now().UTC()},
			}},
			{Key: "$unset", Value: bson.D{{Key: "password", Value: ""}}},
		},
	)
	if err != nil {
		return wrapError(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
