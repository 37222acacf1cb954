package data_access

import (
	"context"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Pyxyll/web-api-ca/models"
)

// UserMoviesRepository persists the per-account collection document. Every
// mutation is a single document update so two concurrent requests for the
// same account cannot interleave a check with a write.
type UserMoviesRepository struct {
	db         *MongoDB
	collection *mongo.Collection
}

func NewUserMoviesRepository(db *MongoDB) *UserMoviesRepository {
	return &UserMoviesRepository{
		db:         db,
		collection: db.Collection("user_movies"),
	}
}

// EnsureIndexes creates the unique owner index. Together with the upsert in
// ensure it guarantees exactly one collection document per account even under
// concurrent first access.
func (r *UserMoviesRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// ensure materializes an empty collection document for the account if none
// exists yet. The upsert is atomic on the server side.
func (r *UserMoviesRepository) ensure(ctx context.Context, username string) error {
	now := time.Now()
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$setOnInsert": bson.M{
			"username":   username,
			"favorites":  bson.A{},
			"watchlist":  bson.A{},
			"reviews":    bson.M{},
			"created_at": now,
			"updated_at": now,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return models.NewStorageError(err)
	}
	return nil
}

// Get returns the account's collection document, creating it first if needed.
func (r *UserMoviesRepository) Get(ctx context.Context, username string) (*models.UserMovies, error) {
	if err := r.ensure(ctx, username); err != nil {
		return nil, err
	}

	var doc models.UserMovies
	if err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		return nil, models.NewStorageError(err)
	}
	return &doc, nil
}

// AddEntry appends a movie to the named array field unless it is already
// present. The membership condition is part of the update filter, so the
// check and the push happen in one atomic operation and a duplicate add is a
// no-op.
func (r *UserMoviesRepository) AddEntry(ctx context.Context, username, field string, movieID int) error {
	if err := r.ensure(ctx, username); err != nil {
		return err
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{
			"username":          username,
			field + ".movie_id": bson.M{"$ne": movieID},
		},
		bson.M{
			"$push": bson.M{field: models.CollectionEntry{MovieID: movieID, AddedAt: time.Now()}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return models.NewStorageError(err)
	}
	return nil
}

// RemoveEntry pulls a movie from the named array field; absent ids are a
// no-op.
func (r *UserMoviesRepository) RemoveEntry(ctx context.Context, username, field string, movieID int) error {
	if err := r.ensure(ctx, username); err != nil {
		return err
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{
			"$pull": bson.M{field: bson.M{"movie_id": movieID}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return models.NewStorageError(err)
	}
	return nil
}

// HasEntry reports whether the movie is in the named array field.
func (r *UserMoviesRepository) HasEntry(ctx context.Context, username, field string, movieID int) (bool, error) {
	if err := r.ensure(ctx, username); err != nil {
		return false, err
	}

	n, err := r.collection.CountDocuments(ctx, bson.M{
		"username":          username,
		field + ".movie_id": movieID,
	})
	if err != nil {
		return false, models.NewStorageError(err)
	}
	return n > 0, nil
}

// UpsertReview writes the review under its movie-id key in a single pipeline
// update. $ifNull keeps the original created_at when an existing review is
// replaced; only updated_at advances.
func (r *UserMoviesRepository) UpsertReview(ctx context.Context, username string, movieID, rating int, content string) error {
	if err := r.ensure(ctx, username); err != nil {
		return err
	}

	key := "reviews." + strconv.Itoa(movieID)
	// content goes through $literal: in a pipeline update a plain string is
	// an expression, and user text may start with "$".
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			key: bson.M{
				"rating":     rating,
				"content":    bson.M{"$literal": content},
				"created_at": bson.M{"$ifNull": bson.A{"$" + key + ".created_at", "$$NOW"}},
				"updated_at": "$$NOW",
			},
			"updated_at": "$$NOW",
		}}},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"username": username}, pipeline)
	if err != nil {
		return models.NewStorageError(err)
	}
	return nil
}

// RemoveReview deletes the review for the movie; absent reviews are a no-op.
func (r *UserMoviesRepository) RemoveReview(ctx context.Context, username string, movieID int) error {
	if err := r.ensure(ctx, username); err != nil {
		return err
	}

	key := "reviews." + strconv.Itoa(movieID)
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{
			"$unset": bson.M{key: ""},
			"$set":   bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return models.NewStorageError(err)
	}
	return nil
}
