package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Pyxyll/web-api-ca/models"
	"github.com/Pyxyll/web-api-ca/services"
)

// maxProfileImageSize limits uploaded profile images to 5MB.
const maxProfileImageSize = 5 << 20

type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// CreateOrAuthenticate dispatches POST /api/users on the action query
// parameter: action=register creates an account, anything else authenticates.
func (c *AuthController) CreateOrAuthenticate(ctx *gin.Context) {
	if ctx.Query("action") == "register" {
		c.register(ctx)
		return
	}
	c.login(ctx)
}

func (c *AuthController) register(ctx *gin.Context) {
	username := ctx.PostForm("username")
	password := ctx.PostForm("password")
	if username == "" || password == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "Username and password are required."})
		return
	}

	var image []byte
	if file, err := ctx.FormFile("profileImage"); err == nil {
		if file.Size > maxProfileImageSize {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "Profile image must be 5MB or smaller."})
			return
		}
		if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "Only image files are allowed."})
			return
		}

		f, openErr := file.Open()
		if openErr != nil {
			respondError(ctx, openErr)
			return
		}
		defer f.Close()

		data, readErr := io.ReadAll(io.LimitReader(f, maxProfileImageSize))
		if readErr != nil {
			respondError(ctx, readErr)
			return
		}
		image = data
	}

	user, err := c.authService.Register(ctx.Request.Context(), username, password, image)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"msg":     "User successfully created.",
		"user": models.PublicUser{
			Username:     user.Username,
			ProfileImage: user.ProfileImage,
		},
	})
}

func (c *AuthController) login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		msg := "Invalid request format."
		if _, ok := err.(validator.ValidationErrors); ok {
			msg = "Username and password are required."
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": msg})
		return
	}

	token, user, err := c.authService.Authenticate(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		// Authentication failures are always 401, including unknown users.
		if appErr, ok := models.AsAppError(err); ok &&
			(appErr.Kind == models.KindNotFound || appErr.Kind == models.KindInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "msg": appErr.Message})
			return
		}
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   "BEARER " + token,
		"user": models.PublicUser{
			Username:     user.Username,
			ProfileImage: user.ProfileImage,
		},
	})
}

// Profile returns the public view of an account.
func (c *AuthController) Profile(ctx *gin.Context) {
	user, err := c.authService.GetProfile(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	createdAt := user.CreatedAt
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": models.PublicUser{
			Username:     user.Username,
			ProfileImage: user.ProfileImage,
			CreatedAt:    &createdAt,
		},
	})
}
