package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionEntry is one movie in the favorites or watchlist array. MovieID
// is an opaque reference into the external catalog and is never validated
// against it.
type CollectionEntry struct {
	MovieID int       `bson:"movie_id" json:"movieId"`
	AddedAt time.Time `bson:"added_at" json:"addedAt"`
}

type Review struct {
	Rating    int       `bson:"rating" json:"rating"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// UserMovies holds the three per-account collections. There is exactly one
// document per account, created lazily on first access. Reviews are keyed by
// the decimal movie id so that replacing a review is a single field update.
type UserMovies struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Username  string             `bson:"username" json:"username"`
	Favorites []CollectionEntry  `bson:"favorites" json:"favorites"`
	Watchlist []CollectionEntry  `bson:"watchlist" json:"watchlist"`
	Reviews   map[string]Review  `bson:"reviews" json:"reviews"`
	CreatedAt time.Time          `bson:"created_at" json:"-"`
	UpdatedAt time.Time          `bson:"updated_at" json:"-"`
}

// FavoriteIDs returns the favorite movie ids in insertion order. The result
// is never nil so it serializes as an empty JSON array.
func (u *UserMovies) FavoriteIDs() []int {
	ids := make([]int, 0, len(u.Favorites))
	for _, entry := range u.Favorites {
		ids = append(ids, entry.MovieID)
	}
	return ids
}

// WatchlistIDs returns the watchlist movie ids in insertion order.
func (u *UserMovies) WatchlistIDs() []int {
	ids := make([]int, 0, len(u.Watchlist))
	for _, entry := range u.Watchlist {
		ids = append(ids, entry.MovieID)
	}
	return ids
}

// ReviewsByMovie returns the reviews map, never nil.
func (u *UserMovies) ReviewsByMovie() map[string]Review {
	if u.Reviews == nil {
		return map[string]Review{}
	}
	return u.Reviews
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}
