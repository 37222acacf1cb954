package services

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Pyxyll/web-api-ca/models"
)

// Array field names for the two membership collections in the store.
const (
	FieldFavorites = "favorites"
	FieldWatchlist = "watchlist"
)

const (
	minReviewRating = 1
	maxReviewRating = 5
	minReviewLength = 10
	maxReviewLength = 1000
)

// UserMoviesStore is the persistence surface the collection service needs.
// Mutating calls must be atomic per document: the membership condition and
// the write happen in one storage-level operation, never as a read followed
// by a second round trip.
type UserMoviesStore interface {
	Get(ctx context.Context, username string) (*models.UserMovies, error)
	AddEntry(ctx context.Context, username, field string, movieID int) error
	RemoveEntry(ctx context.Context, username, field string, movieID int) error
	HasEntry(ctx context.Context, username, field string, movieID int) (bool, error)
	UpsertReview(ctx context.Context, username string, movieID, rating int, content string) error
	RemoveReview(ctx context.Context, username string, movieID int) error
}

// UserMoviesService implements the favorites, watchlist, and review
// operations. Every call is scoped to the authenticated username resolved by
// the token gate; the account is never a client-supplied parameter.
type UserMoviesService struct {
	store  UserMoviesStore
	logger *zap.Logger
}

func NewUserMoviesService(store UserMoviesStore, logger *zap.Logger) *UserMoviesService {
	return &UserMoviesService{
		store:  store,
		logger: logger,
	}
}

func (s *UserMoviesService) AddFavorite(ctx context.Context, username string, movieID int) ([]int, error) {
	if err := s.store.AddEntry(ctx, username, FieldFavorites, movieID); err != nil {
		return nil, err
	}
	return s.ListFavorites(ctx, username)
}

func (s *UserMoviesService) RemoveFavorite(ctx context.Context, username string, movieID int) ([]int, error) {
	if err := s.store.RemoveEntry(ctx, username, FieldFavorites, movieID); err != nil {
		return nil, err
	}
	return s.ListFavorites(ctx, username)
}

func (s *UserMoviesService) IsFavorite(ctx context.Context, username string, movieID int) (bool, error) {
	return s.store.HasEntry(ctx, username, FieldFavorites, movieID)
}

func (s *UserMoviesService) ListFavorites(ctx context.Context, username string) ([]int, error) {
	doc, err := s.store.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return doc.FavoriteIDs(), nil
}

func (s *UserMoviesService) AddToWatchlist(ctx context.Context, username string, movieID int) ([]int, error) {
	if err := s.store.AddEntry(ctx, username, FieldWatchlist, movieID); err != nil {
		return nil, err
	}
	return s.ListWatchlist(ctx, username)
}

func (s *UserMoviesService) RemoveFromWatchlist(ctx context.Context, username string, movieID int) ([]int, error) {
	if err := s.store.RemoveEntry(ctx, username, FieldWatchlist, movieID); err != nil {
		return nil, err
	}
	return s.ListWatchlist(ctx, username)
}

func (s *UserMoviesService) IsInWatchlist(ctx context.Context, username string, movieID int) (bool, error) {
	return s.store.HasEntry(ctx, username, FieldWatchlist, movieID)
}

func (s *UserMoviesService) ListWatchlist(ctx context.Context, username string) ([]int, error) {
	doc, err := s.store.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return doc.WatchlistIDs(), nil
}

// UpsertReview validates and writes the review for the movie, replacing any
// existing one, and returns the full reviews map.
func (s *UserMoviesService) UpsertReview(ctx context.Context, username string, movieID, rating int, content string) (map[string]models.Review, error) {
	if rating < minReviewRating || rating > maxReviewRating {
		return nil, models.NewValidationError("Rating must be between 1 and 5.")
	}
	if n := utf8.RuneCountInString(content); n < minReviewLength || n > maxReviewLength {
		return nil, models.NewValidationError("Review content must be between 10 and 1000 characters.")
	}

	if err := s.store.UpsertReview(ctx, username, movieID, rating, content); err != nil {
		return nil, err
	}
	return s.GetReviews(ctx, username)
}

func (s *UserMoviesService) RemoveReview(ctx context.Context, username string, movieID int) (map[string]models.Review, error) {
	if err := s.store.RemoveReview(ctx, username, movieID); err != nil {
		return nil, err
	}
	return s.GetReviews(ctx, username)
}

func (s *UserMoviesService) GetReviews(ctx context.Context, username string) (map[string]models.Review, error) {
	doc, err := s.store.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return doc.ReviewsByMovie(), nil
}
