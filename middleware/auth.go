package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret string

// SetJWTSecret configures the secret used to verify bearer tokens.
func SetJWTSecret(secret string) {
	jwtSecret = secret
}

// AuthMiddleware gates protected routes. It verifies the bearer token from
// the Authorization header and stores the resolved username on the request
// context for downstream handlers. The prefix check is case-insensitive, so
// both "BEARER <token>" and "Bearer <token>" are accepted.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Authorization header is required.")
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "Authorization header must be of the form: BEARER <token>.")
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid or expired token.")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "Invalid token claims.")
			return
		}
		username, _ := claims["username"].(string)
		if username == "" {
			abortUnauthorized(c, "Invalid token claims.")
			return
		}

		c.Set("username", username)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "msg": msg})
}
