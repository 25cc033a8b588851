package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book represents a book post stored in MongoDB.
// UserID references the owning user and never changes after creation.
type Book struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Caption   string             `json:"caption" bson:"caption"`
	Rating    int                `json:"rating" bson:"rating"`
	Image     string             `json:"image" bson:"image"`
	UserID    uint               `json:"userId" bson:"user_id"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

// CreateBookRequest defines the request body for creating a new book post.
// Image is the raw cover payload, either a data URI or plain base64.
type CreateBookRequest struct {
	Title   string `json:"title" validate:"required"`
	Caption string `json:"caption" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Image   string `json:"image" validate:"required"`
}

// BookWithAuthor is a book augmented with its owner's public profile.
type BookWithAuthor struct {
	Book
	Author UserCompact `json:"user"`
}
