package data_access

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Pyxyll/web-api-ca/models"
)

// TMDBClient fetches movie and person metadata from the external catalog API.
type TMDBClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewTMDBClient(apiKey, baseURL string) *TMDBClient {
	return &TMDBClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *TMDBClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("TMDB API key not found")
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request to TMDB API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr models.TMDBError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.StatusMessage != "" {
			return fmt.Errorf("TMDB API error: %s", apiErr.StatusMessage)
		}
		return fmt.Errorf("TMDB API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding TMDB response: %w", err)
	}
	return nil
}

func (c *TMDBClient) DiscoverMovies(ctx context.Context) (*models.MovieList, error) {
	query := url.Values{}
	query.Set("language", "en-US")
	query.Set("include_adult", "false")
	query.Set("include_video", "false")
	query.Set("page", "1")

	var list models.MovieList
	if err := c.get(ctx, "/discover/movie", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *TMDBClient) MovieGenres(ctx context.Context) (*models.GenreList, error) {
	query := url.Values{}
	query.Set("language", "en-US")

	var genres models.GenreList
	if err := c.get(ctx, "/genre/movie/list", query, &genres); err != nil {
		return nil, err
	}
	return &genres, nil
}

func (c *TMDBClient) GetMovie(ctx context.Context, id int) (*models.MovieDetails, error) {
	var movie models.MovieDetails
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (c *TMDBClient) GetPerson(ctx context.Context, id int) (*models.Person, error) {
	var person models.Person
	if err := c.get(ctx, "/person/"+strconv.Itoa(id), nil, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

func (c *TMDBClient) GetPersonMovieCredits(ctx context.Context, id int) (*models.PersonCredits, error) {
	var credits models.PersonCredits
	if err := c.get(ctx, "/person/"+strconv.Itoa(id)+"/movie_credits", nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}
