package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bookworm-social/backend/internal/handlers"
	"github.com/bookworm-social/backend/internal/models"
)

const testJWTSecret = "test-secret"

func TestAuthHandler_Register(t *testing.T) {
	t.Run("registers user and returns token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetUserByEmail", "reader@example.com").Return(nil, gorm.ErrRecordNotFound)
		userRepo.On("GetUserByUsername", "reader").Return(nil, gorm.ErrRecordNotFound)
		userRepo.On("CreateUser", mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "reader" && u.Email == "reader@example.com" &&
				u.Password != "secret123" && u.ProfileImage != ""
		})).Return(nil)

		h := handlers.NewAuthHandler(userRepo, testJWTSecret)
		body := `{"username":"reader","email":"reader@example.com","password":"secret123"}`
		c, rec := newTestContext(t, http.MethodPost, "/api/auth/register", body, nil)

		require.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Token string      `json:"token"`
			User  models.User `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "reader", resp.User.Username)
		// The hashed secret must never be serialized
		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "secret123")

		userRepo.AssertExpectations(t)
	})

	t.Run("rejects invalid payloads", func(t *testing.T) {
		bodies := map[string]string{
			"short username": `{"username":"ab","email":"a@b.com","password":"secret123"}`,
			"bad email":      `{"username":"reader","email":"not-an-email","password":"secret123"}`,
			"short password": `{"username":"reader","email":"a@b.com","password":"123"}`,
			"empty body":     `{}`,
		}

		for name, body := range bodies {
			t.Run(name, func(t *testing.T) {
				userRepo := new(MockUserRepository)
				h := handlers.NewAuthHandler(userRepo, testJWTSecret)
				c, _ := newTestContext(t, http.MethodPost, "/api/auth/register", body, nil)

				err := h.Register(c)
				var httpErr *echo.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, http.StatusBadRequest, httpErr.Code)
				userRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
			})
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetUserByEmail", "reader@example.com").Return(&models.User{ID: 1}, nil)

		h := handlers.NewAuthHandler(userRepo, testJWTSecret)
		body := `{"username":"reader","email":"reader@example.com","password":"secret123"}`
		c, _ := newTestContext(t, http.MethodPost, "/api/auth/register", body, nil)

		err := h.Register(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	stored := &models.User{ID: 7, Username: "reader", Email: "reader@example.com", Password: string(hashed)}

	t.Run("valid credentials yield a token for the user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetUserByEmail", "reader@example.com").Return(stored, nil)

		h := handlers.NewAuthHandler(userRepo, testJWTSecret)
		body := `{"email":"reader@example.com","password":"secret123"}`
		c, rec := newTestContext(t, http.MethodPost, "/api/auth/login", body, nil)

		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		claims := &models.JwtCustomClaims{}
		token, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		require.NoError(t, err)
		assert.True(t, token.Valid)
		assert.Equal(t, stored.ID, claims.UserID)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetUserByEmail", "reader@example.com").Return(stored, nil)

		h := handlers.NewAuthHandler(userRepo, testJWTSecret)
		body := `{"email":"reader@example.com","password":"wrong-password"}`
		c, _ := newTestContext(t, http.MethodPost, "/api/auth/login", body, nil)

		err := h.Login(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("unknown email is rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetUserByEmail", "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		h := handlers.NewAuthHandler(userRepo, testJWTSecret)
		body := `{"email":"ghost@example.com","password":"secret123"}`
		c, _ := newTestContext(t, http.MethodPost, "/api/auth/login", body, nil)

		err := h.Login(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}
