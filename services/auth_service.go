package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Pyxyll/web-api-ca/models"
)

// passwordSymbols is the allowed symbol set for account passwords.
const passwordSymbols = "@$!%*#?&"

// UserStore is the account persistence surface the auth service needs.
type UserStore interface {
	// CreateUser inserts a new account; returns a duplicate-username error
	// if the identifier is taken.
	CreateUser(ctx context.Context, user *models.User) error
	// FindByUsername returns the account or (nil, nil) when none exists.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// ImageStore uploads profile images to external object storage.
type ImageStore interface {
	Upload(ctx context.Context, data []byte) (*models.ProfileImage, error)
	Destroy(ctx context.Context, publicID string) error
}

type AuthService struct {
	users     UserStore
	images    ImageStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewAuthService(users UserStore, images ImageStore, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		images:    images,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Register creates an account. If an image is supplied it is uploaded before
// the account is persisted; a failed persist then triggers a best-effort
// compensating delete so no orphaned image is left in object storage.
func (s *AuthService) Register(ctx context.Context, username, password string, image []byte) (*models.User, error) {
	if username == "" || password == "" {
		return nil, models.NewValidationError("Username and password are required.")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Password: string(hashed),
	}

	if len(image) > 0 {
		uploaded, err := s.images.Upload(ctx, image)
		if err != nil {
			return nil, err
		}
		user.ProfileImage = uploaded
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if user.ProfileImage != nil {
			// Compensating delete, best effort only. Logged, not retried.
			if delErr := s.images.Destroy(ctx, user.ProfileImage.PublicID); delErr != nil {
				s.logger.Warn("failed to delete orphaned profile image",
					zap.String("public_id", user.ProfileImage.PublicID),
					zap.Error(delErr))
			}
		}
		return nil, err
	}

	return user, nil
}

// Authenticate verifies the credentials and issues a signed bearer token
// encoding the username.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, *models.User, error) {
	if username == "" || password == "" {
		return "", nil, models.NewValidationError("Username and password are required.")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, models.NewNotFoundError("Authentication failed. User not found.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, models.NewInvalidCredentialsError()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	})

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, err
	}

	return tokenString, user, nil
}

// GetProfile returns the account for the given username.
func (s *AuthService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User not found.")
	}
	return user, nil
}

// validatePassword enforces the registration policy: at least 8 characters,
// at least one letter, one digit, and one symbol from passwordSymbols, and
// no characters outside those classes.
func validatePassword(password string) error {
	if len(password) < 8 {
		return models.NewWeakPasswordError()
	}

	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		default:
			return models.NewWeakPasswordError()
		}
	}
	if !hasLetter || !hasDigit || !hasSymbol {
		return models.NewWeakPasswordError()
	}
	return nil
}
