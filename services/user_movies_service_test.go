package services

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Pyxyll/web-api-ca/models"
)

// memoryUserMoviesStore mimics the storage layer's atomic per-document
// semantics: every mutation holds the lock for the whole conditional update,
// the same guarantee the document store gives a single update operation.
type memoryUserMoviesStore struct {
	mu   sync.Mutex
	docs map[string]*models.UserMovies
}

func newMemoryUserMoviesStore() *memoryUserMoviesStore {
	return &memoryUserMoviesStore{docs: make(map[string]*models.UserMovies)}
}

func (s *memoryUserMoviesStore) doc(username string) *models.UserMovies {
	d, ok := s.docs[username]
	if !ok {
		d = &models.UserMovies{
			Username:  username,
			Favorites: []models.CollectionEntry{},
			Watchlist: []models.CollectionEntry{},
			Reviews:   map[string]models.Review{},
		}
		s.docs[username] = d
	}
	return d
}

func (s *memoryUserMoviesStore) entries(d *models.UserMovies, field string) *[]models.CollectionEntry {
	if field == FieldWatchlist {
		return &d.Watchlist
	}
	return &d.Favorites
}

func (s *memoryUserMoviesStore) Get(ctx context.Context, username string) (*models.UserMovies, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.doc(username)
	cp := *d
	cp.Favorites = append([]models.CollectionEntry{}, d.Favorites...)
	cp.Watchlist = append([]models.CollectionEntry{}, d.Watchlist...)
	cp.Reviews = make(map[string]models.Review, len(d.Reviews))
	for k, v := range d.Reviews {
		cp.Reviews[k] = v
	}
	return &cp, nil
}

func (s *memoryUserMoviesStore) AddEntry(ctx context.Context, username, field string, movieID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	arr := s.entries(s.doc(username), field)
	for _, e := range *arr {
		if e.MovieID == movieID {
			return nil
		}
	}
	*arr = append(*arr, models.CollectionEntry{MovieID: movieID, AddedAt: time.Now()})
	return nil
}

func (s *memoryUserMoviesStore) RemoveEntry(ctx context.Context, username, field string, movieID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	arr := s.entries(s.doc(username), field)
	kept := (*arr)[:0]
	for _, e := range *arr {
		if e.MovieID != movieID {
			kept = append(kept, e)
		}
	}
	*arr = kept
	return nil
}

func (s *memoryUserMoviesStore) HasEntry(ctx context.Context, username, field string, movieID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range *s.entries(s.doc(username), field) {
		if e.MovieID == movieID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryUserMoviesStore) UpsertReview(ctx context.Context, username string, movieID, rating int, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.doc(username)
	key := strconv.Itoa(movieID)
	now := time.Now()
	created := now
	if old, ok := d.Reviews[key]; ok {
		created = old.CreatedAt
	}
	d.Reviews[key] = models.Review{
		Rating:    rating,
		Content:   content,
		CreatedAt: created,
		UpdatedAt: now,
	}
	return nil
}

func (s *memoryUserMoviesStore) RemoveReview(ctx context.Context, username string, movieID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.doc(username).Reviews, strconv.Itoa(movieID))
	return nil
}

func newTestUserMoviesService() *UserMoviesService {
	return NewUserMoviesService(newMemoryUserMoviesStore(), zap.NewNop())
}

func TestAddFavorite_Idempotent(t *testing.T) {
	svc := newTestUserMoviesService()
	ctx := context.Background()

	first, err := svc.AddFavorite(ctx, "alice", 42)
	require.NoError(t, err)
	assert.Equal(t, []int{42}, first)

	second, err := svc.AddFavorite(ctx, "alice", 42)
	require.NoError(t, err)
	assert.Equal(t, []int{42}, second)
}

func TestAddRemoveFavorite_RoundTrip(t *testing.T) {
	svc := newTestUserMoviesService()
	ctx := context.Background()

	before, err := svc.ListFavorites(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, before)

	_, err = svc.AddFavorite(ctx, "alice", 42)
	require.NoError(t, err)

	after, err := svc.RemoveFavorite(ctx, "alice", 42)
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestRemoveFavorite_AbsentIsNoop(t *testing.T) {
	svc := newTestUserMoviesService()

	favorites, err := svc.RemoveFavorite(context.Background(), "alice", 99)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestListFavorites_InsertionOrder(t *testing.T) {
	svc := newTestUserMoviesService()
	ctx := context.Background()

	for _, id := range []int{3, 1, 2} {
		_, err := svc.AddFavorite(ctx, "alice", id)
		require.NoError(t, err)
	}

	favorites, err := svc.ListFavorites(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, favorites)
}

func TestWatchlist_IndependentOfFavorites(t *testing.T) {
	svc := newTestUserMoviesService()
	ctx := context.Background()

	_, err := svc.AddFavorite(ctx, "alice", 42)
	require.NoError(t, err)

	watchlist, err := svc.ListWatchlist(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, watchlist)

	watchlist, err = svc.AddToWatchlist(ctx, "alice", 7)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, watchlist)

	inWatchlist, err := svc.IsInWatchlist(ctx, "alice", 7)
	require.NoError(t, err)
	assert.True(t, inWatchlist)

	isFavorite, err := svc.IsFavorite(ctx, "alice", 7)
	require.NoError(t, err)
	assert.False(t, isFavorite)
}

func TestCollections_ScopedPerAccount(t *testing.T) {
	svc := newTestUserMoviesService()
	ctx := context.Background()

	_, err := svc.AddFavorite(ctx, "alice", 42)
	require.NoError(t, err)

	bobs, err := svc.ListFavorites(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, bobs)
}

func TestUpsertReview_Validation(t *testing.T) {
	tests := []struct {
		name    string
		rating  int
		content string
	}{
		{"rating too low", 0, "a valid review text"},
		{"rating too high", 6, "a valid review text"},
		{"content too short", 4, "short"},
		{"content too long", 4, strings.Repeat("a", 1001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestUserMoviesService()
			ctx := context.Background()

			_, err := svc.UpsertReview(ctx, "alice", 42, tt.rating, tt.content)
			require.Error(t, err)
			appErr, ok := models.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, models.KindValidation, appErr.Kind)

			// Prior state must be untouched.
			reviews, err := svc.GetReviews(ctx, "alice")
			require.NoError(t, err)
			assert.Empty(t, reviews)
		})
	}
}

func TestUpsertReview_ReplacesExisting(t *testing.T) {
	svc := newTestUserMoviesService()
	ctx := context.Background()

	first, err := svc.UpsertReview(ctx, "alice", 42, 4, "a valid review text")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.UpsertReview(ctx, "alice", 42, 5, "an even better review text")
	require.NoError(t, err)
	require.Len(t, second, 1)

	review := second["42"]
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "an even better review text", review.Content)
	assert.True(t, review.CreatedAt.Equal(first["42"].CreatedAt), "replace must keep the original creation time")
	assert.False(t, review.UpdatedAt.Before(review.CreatedAt))
}

func TestRemoveReview_AbsentIsNoop(t *testing.T) {
	svc := newTestUserMoviesService()

	reviews, err := svc.RemoveReview(context.Background(), "alice", 42)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestAddFavorite_ConcurrentSameID(t *testing.T) {
	svc := newTestUserMoviesService()
	ctx := context.Background()

	const callers = 50
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.AddFavorite(ctx, "alice", 42)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	favorites, err := svc.ListFavorites(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []int{42}, favorites, "concurrent adds must leave exactly one entry")
}
