package mongostore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/google/uuid"
	"github.com/prensprays-byte/library-inventory-system/internal/store"
)

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

func (s *Store) CreateBook(ctx context.Context, book *store.Book) error {
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = now

	_, err := s.col(ColBooks).InsertOne(ctx, book)
	return wrapError(err)
}

func (s *Store) GetBook(ctx context.Context, id string) (*store.Book, error) {
	return findOne[store.Book](ctx, s.col(ColBooks), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) ListBooks(ctx context.Context) ([]*store.Book, error) {
	opts := options.Find().SetSort(newestFirst)
	return findMany[store.Book](ctx, s.col(ColBooks), bson.D{}, opts)
}

func (s *Store) SearchBooks(ctx context.Context, filter store.BookFilter) ([]*store.Book, error) {
	query := bson.D{}
	if q := strings.TrimSpace(filter.TitleContains); q != "" {
		query = append(query, bson.E{Key: "title", Value: substringRegex(q)})
	}
	if q := strings.TrimSpace(filter.AuthorContains); q != "" {
		query = append(query, bson.E{Key: "author", Value: substringRegex(q)})
	}

	page, limit := filter.Bounds()

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	return findMany[store.Book](ctx, s.col(ColBooks), query, opts)
}

func (s *Store) UpdateBook(ctx context.Context, book *store.Book) error {
	book.UpdatedAt = time.Now().UTC()
	res, err := s.col(ColBooks).ReplaceOne(ctx, bson.D{{Key: "_id", Value: book.ID}}, book)
	if err != nil {
		return wrapError(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBook(ctx context.Context, id string) error {
	res, err := s.col(ColBooks).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return wrapError(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DecrementQuantity is one conditional FindOneAndUpdate so two racing
// purchasers of the last copy can never both succeed.
func (s *Store) DecrementQuantity(ctx context.Context, id string) (int, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated store.Book
	err := s.col(ColBooks).FindOneAndUpdate(ctx,
		bson.D{
			{Key: "_id", Value: id},
			{Key: "quantity", Value: bson.D{{Key: "$gt", Value: 0}}},
		},
		bson.D{
			{Key: "$inc", Value: bson.D{{Key: "quantity", Value: -1}}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now().UTC()}}},
		},
		opts,
	).Decode(&updated)
	if err == nil {
		return updated.Quantity, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, wrapError(err)
	}

	// No matching document: distinguish a missing book from an empty shelf.
	if _, err := s.GetBook(ctx, id); err != nil {
		return 0, err
	}
	return 0, store.ErrOutOfStock
}

// substringRegex builds a case-insensitive literal substring matcher. The
// input is quoted so user text cannot inject regex syntax.
func substringRegex(q string) bson.D {
	return bson.D{
		{Key: "$regex", Value: regexp.QuoteMeta(q)},
		{Key: "$options", Value: "i"},
	}
}
