package handlers

import (
	"encoding/base64"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/bookworm-social/backend/internal/middleware"
	"github.com/bookworm-social/backend/internal/models"
	"github.com/bookworm-social/backend/internal/repositories"
	"github.com/bookworm-social/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// BookHandler handles HTTP requests related to book posts
type BookHandler struct {
	bookRepository repositories.BookRepository
	userRepository repositories.UserRepository
	blobStore      storage.BlobStore
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(bookRepo repositories.BookRepository, userRepo repositories.UserRepository, blobStore storage.BlobStore) *BookHandler {
	return &BookHandler{
		bookRepository: bookRepo,
		userRepository: userRepo,
		blobStore:      blobStore,
	}
}

// RegisterBookRoutes registers book-related routes
func (h *BookHandler) RegisterBookRoutes(g *echo.Group) {
	g.POST("/books", h.CreateBook)
	g.GET("/books", h.GetBooks)
	g.GET("/books/mine", h.GetMyBooks)
	g.DELETE("/books/:id", h.DeleteBook)
}

// CreateBook uploads the cover image and persists a new book post
func (h *BookHandler) CreateBook(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "No authentication token, access denied.")
	}

	var req models.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide all fields.")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide all fields.")
	}

	data, contentType, err := decodeImagePayload(req.Image)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide all fields.")
	}

	imageURL, err := h.blobStore.Upload(c.Request().Context(), data, contentType)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	book := &models.Book{
		Title:   req.Title,
		Caption: req.Caption,
		Rating:  req.Rating,
		Image:   imageURL,
		UserID:  user.ID,
	}

	// Upload and insert are sequential, not transactional: an insert
	// failure here leaves an orphaned blob behind.
	if err := h.bookRepository.CreateBook(c.Request().Context(), book); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, book)
}

// GetBooks returns the shared feed, newest-first, with author projection
func (h *BookHandler) GetBooks(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}
	skip := int64((page - 1) * limit)

	books, err := h.bookRepository.GetBooks(c.Request().Context(), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error.")
	}

	// Count and page are separate queries; a concurrent insert can make
	// totalBooks disagree with the returned page.
	totalBooks, err := h.bookRepository.CountBooks(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error.")
	}

	// Resolve each owner once per page
	userMap := make(map[uint]models.UserCompact)
	for _, b := range books {
		if _, seen := userMap[b.UserID]; seen {
			continue
		}
		owner, err := h.userRepository.GetUserByID(b.UserID)
		if err == nil {
			userMap[b.UserID] = owner.ToCompact()
		}
	}

	enriched := make([]models.BookWithAuthor, len(books))
	for i, b := range books {
		enriched[i] = models.BookWithAuthor{
			Book:   b,
			Author: userMap[b.UserID],
		}
	}

	totalPages := int(math.Ceil(float64(totalBooks) / float64(limit)))

	return c.JSON(http.StatusOK, echo.Map{
		"books":       enriched,
		"currentPage": page,
		"totalBooks":  totalBooks,
		"totalPages":  totalPages,
	})
}

// GetMyBooks returns all of the requester's books, newest-first
func (h *BookHandler) GetMyBooks(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "No authentication token, access denied.")
	}

	books, err := h.bookRepository.GetBooksByUserID(c.Request().Context(), user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error.")
	}

	return c.JSON(http.StatusOK, books)
}

// DeleteBook removes a book owned by the requester and its stored image
func (h *BookHandler) DeleteBook(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "No authentication token, access denied.")
	}
	bookID := c.Param("id")

	book, err := h.bookRepository.GetBookByID(c.Request().Context(), bookID)
	if err != nil {
		if errors.Is(err, repositories.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Book not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error.")
	}

	if book.UserID != user.ID {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	// Image removal is best-effort; the record deletion must go through
	// even when the blob store fails.
	if book.Image != "" && h.blobStore.Owns(book.Image) {
		objectKey := storage.ObjectKeyFromURL(book.Image)
		if err := h.blobStore.Destroy(c.Request().Context(), objectKey); err != nil {
			log.Printf("Error deleting image %q from blob store: %v", objectKey, err)
		}
	}

	if err := h.bookRepository.DeleteBook(c.Request().Context(), bookID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error.")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Book deleted successfully."})
}

// decodeImagePayload accepts either a data URI or plain base64 content
// and returns the raw bytes plus the declared content type.
func decodeImagePayload(payload string) ([]byte, string, error) {
	contentType := "image/jpeg"
	encoded := payload

	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, "", errors.New("malformed data URI")
		}
		meta := payload[len("data:"):comma]
		encoded = payload[comma+1:]
		if semi := strings.IndexByte(meta, ';'); semi >= 0 {
			meta = meta[:semi]
		}
		if meta != "" {
			contentType = meta
		}
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty image payload")
	}
	return data, contentType, nil
}
