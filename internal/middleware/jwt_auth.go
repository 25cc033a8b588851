package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/bookworm-social/backend/internal/models"
	"github.com/bookworm-social/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UserContextKey is the echo context key holding the authenticated user.
const UserContextKey = "user"

// JWTAuthMiddleware verifies the bearer token and resolves the full user
// record before any handler runs. The user is re-read from the store on
// every request; tokens are never cached or revoked server-side.
func JWTAuthMiddleware(jwtSecret string, userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No authentication token, access denied.")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No authentication token, access denied.")
			}
			tokenString := parts[1]

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})

			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid.")
			}

			user, err := userRepo.GetUserByID(claims.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Token issued for a user that no longer exists.
					return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid.")
				}
				log.Printf("Authentication error: %v", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error.")
			}

			c.Set(UserContextKey, user)

			return next(c)
		}
	}
}

// CurrentUser extracts the authenticated user attached by JWTAuthMiddleware.
func CurrentUser(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(UserContextKey).(*models.User)
	return user, ok
}
