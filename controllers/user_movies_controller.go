package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Pyxyll/web-api-ca/models"
	"github.com/Pyxyll/web-api-ca/services"
)

type UserMoviesController struct {
	userMoviesService *services.UserMoviesService
}

func NewUserMoviesController(userMoviesService *services.UserMoviesService) *UserMoviesController {
	return &UserMoviesController{
		userMoviesService: userMoviesService,
	}
}

// username pulls the identity the auth middleware resolved. Handlers never
// accept an account identifier from the client.
func username(ctx *gin.Context) (string, bool) {
	v, exists := ctx.Get("username")
	name, ok := v.(string)
	if !exists || !ok || name == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "msg": "User not authenticated."})
		return "", false
	}
	return name, true
}

func movieID(ctx *gin.Context) (int, bool) {
	id, err := strconv.Atoi(ctx.Param("movieId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "Invalid movie id."})
		return 0, false
	}
	return id, true
}

func (c *UserMoviesController) ListFavorites(ctx *gin.Context) {
	name, ok := username(ctx)
	if !ok {
		return
	}

	favorites, err := c.userMoviesService.ListFavorites(ctx.Request.Context(), name)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "favorites": favorites})
}

func (c *UserMoviesController) AddFavorite(ctx *gin.Context) {
	name, ok := username(ctx)
	if !ok {
		return
	}
	id, ok := movieID(ctx)
	if !ok {
		return
	}

	favorites, err := c.userMoviesService.AddFavorite(ctx.Request.Context(), name, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "favorites": favorites})
}

func (c *UserMoviesController) RemoveFavorite(ctx *gin.Context) {
	name, ok := username(ctx)
	if !ok {
		return
	}
	id, ok := movieID(ctx)
	if !ok {
		return
	}

	favorites, err := c.userMoviesService.RemoveFavorite(ctx.Request.Context(), name, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "favorites": favorites})
}

func (c *UserMoviesController) CheckFavorite(ctx *gin.Context) {
	name, ok := username(ctx)
	if !ok {
		return
	}
	id, ok := movieID(ctx)
	if !ok {
		return
	}

	isFavorite, err := c.userMoviesService.IsFavorite(ctx.Request.Context(), name, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "isFavorite": isFavorite})
}

func (c *UserMoviesController) ListWatchlist(ctx *gin.Context) {
	name, ok := username(ctx)
	if !ok {
		return
	}

	watchlist, err := c.userMoviesService.ListWatchlist(ctx.Request.Context(), name)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "watchlist": watchlist})
}

func (c *UserMoviesController) AddToWatchlist(ctx *gin.Context) {
	name, ok := username(ctx)
	if !ok {
		return
	}
	id, ok := movieID(ctx)
	if !ok {
		return
	}

	watchlist, err := c.userMoviesService.AddToWatchlist(ctx.Request.Context(), name, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "watchlist": watchlist})
}

func (c *UserMoviesController) RemoveFromWatchlist(ctx *gin.Context) {
	name, ok := username(ctx)
	if !ok {
		return
	}
	id, ok := movieID(ctx)
	if !ok {
		return
	}

	watchlist, err := c.userMoviesService.RemoveFromWatchlist(ctx.Request.Context(), name, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "watchlist": watchlist})
}

func (c *UserMoviesController) CheckWatchlist(ctx *gin.Context) {
	name, ok := username(ctx)
	if !ok {
		return
	}
	id, ok := movieID(ctx)
	if !ok {
		return
	}

	inWatchlist, err := c.userMoviesService.IsInWatchlist(ctx.Request.Context(), name, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "isInWatchlist": inWatchlist})
}

func (c *UserMoviesController) GetReviews(ctx *gin.Context) {
	name, ok := username(ctx)
	if !ok {
		return
	}

	reviews, err := c.userMoviesService.GetReviews(ctx.Request.Context(), name)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
}

func (c *UserMoviesController) UpsertReview(ctx *gin.Context) {
	name, ok := username(ctx)
	if !ok {
		return
	}
	id, ok := movieID(ctx)
	if !ok {
		return
	}

	var req models.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "Invalid request format."})
		return
	}

	reviews, err := c.userMoviesService.UpsertReview(ctx.Request.Context(), name, id, req.Rating, req.Content)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
}

func (c *UserMoviesController) RemoveReview(ctx *gin.Context) {
	name, ok := username(ctx)
	if !ok {
		return
	}
	id, ok := movieID(ctx)
	if !ok {
		return
	}

	reviews, err := c.userMoviesService.RemoveReview(ctx.Request.Context(), name, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
}
