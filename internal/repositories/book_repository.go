package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/bookworm-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrBookNotFound is returned when a book id resolves to no document.
var ErrBookNotFound = errors.New("book not found")

// BookRepository defines the interface for book data operations
type BookRepository interface {
	CreateBook(ctx context.Context, book *models.Book) error
	GetBookByID(ctx context.Context, id string) (*models.Book, error)
	GetBooks(ctx context.Context, skip, limit int64) ([]models.Book, error)
	GetBooksByUserID(ctx context.Context, userID uint) ([]models.Book, error)
	CountBooks(ctx context.Context) (int64, error)
	DeleteBook(ctx context.Context, id string) error
}

// MongoBookRepository implements BookRepository for MongoDB
type MongoBookRepository struct {
	collection *mongo.Collection
}

// NewMongoBookRepository creates a new MongoBookRepository
func NewMongoBookRepository(db *mongo.Database) *MongoBookRepository {
	return &MongoBookRepository{collection: db.Collection("books")}
}

// CreateBook creates a new book in MongoDB
func (r *MongoBookRepository) CreateBook(ctx context.Context, book *models.Book) error {
	book.ID = primitive.NewObjectID()
	book.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, book)
	return err
}

// GetBookByID retrieves a book by ID from MongoDB
func (r *MongoBookRepository) GetBookByID(ctx context.Context, id string) (*models.Book, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrBookNotFound
	}

	var book models.Book
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&book)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// GetBooks retrieves books newest-first with offset/limit pagination
func (r *MongoBookRepository) GetBooks(ctx context.Context, skip, limit int64) ([]models.Book, error) {
	var books []models.Book
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBooksByUserID retrieves all books owned by a user, newest-first
func (r *MongoBookRepository) GetBooksByUserID(ctx context.Context, userID uint) ([]models.Book, error) {
	var books []models.Book
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// CountBooks returns the total number of books in the collection
func (r *MongoBookRepository) CountBooks(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.D{})
}

// DeleteBook deletes a book by ID from MongoDB
func (r *MongoBookRepository) DeleteBook(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrBookNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrBookNotFound
	}
	return nil
}
