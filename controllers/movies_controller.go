package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Pyxyll/web-api-ca/data_access"
)

// MoviesController proxies read-only catalog metadata requests. It never
// touches the stores; catalog data and user collections are only composed at
// the client.
type MoviesController struct {
	tmdbClient *data_access.TMDBClient
}

func NewMoviesController(tmdbClient *data_access.TMDBClient) *MoviesController {
	return &MoviesController{
		tmdbClient: tmdbClient,
	}
}

func (c *MoviesController) Discover(ctx *gin.Context) {
	movies, err := c.tmdbClient.DiscoverMovies(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "msg": "Failed to fetch movies."})
		return
	}
	ctx.JSON(http.StatusOK, movies)
}

func (c *MoviesController) Genres(ctx *gin.Context) {
	genres, err := c.tmdbClient.MovieGenres(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "msg": "Failed to fetch genres."})
		return
	}
	ctx.JSON(http.StatusOK, genres)
}

func (c *MoviesController) GetMovie(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "Invalid movie id."})
		return
	}

	movie, err := c.tmdbClient.GetMovie(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "msg": "Failed to fetch movie."})
		return
	}
	ctx.JSON(http.StatusOK, movie)
}

func (c *MoviesController) GetActor(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "Invalid person id."})
		return
	}

	person, err := c.tmdbClient.GetPerson(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "msg": "Failed to fetch person."})
		return
	}
	ctx.JSON(http.StatusOK, person)
}

func (c *MoviesController) GetActorCredits(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "Invalid person id."})
		return
	}

	credits, err := c.tmdbClient.GetPersonMovieCredits(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "msg": "Failed to fetch credits."})
		return
	}
	ctx.JSON(http.StatusOK, credits)
}
