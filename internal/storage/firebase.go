package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// FirebaseStore implements BlobStore on top of Firebase Cloud Storage.
type FirebaseStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewFirebaseStore initializes the Firebase app from a service-account
// credentials file and opens the configured storage bucket.
func NewFirebaseStore(ctx context.Context, credentialsPath, bucketName string) (*FirebaseStore, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("Firebase credentials path not provided")
	}
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("Firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}

	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error opening storage bucket: %w", err)
	}

	return &FirebaseStore{bucket: bucket, bucketName: bucketName}, nil
}

// Upload stores the payload under a fresh extension-less key and returns its URL.
func (s *FirebaseStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	objectKey := uuid.NewString()

	w := s.bucket.Object(objectKey).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectKey), nil
}

// Destroy removes an object from the bucket.
func (s *FirebaseStore) Destroy(ctx context.Context, objectKey string) error {
	err := s.bucket.Object(objectKey).Delete(ctx)
	if err == gcs.ErrObjectNotExist {
		return ErrObjectNotFound
	}
	return err
}

// Owns reports whether the URL points into this store's bucket.
func (s *FirebaseStore) Owns(url string) bool {
	return strings.HasPrefix(url, "https://storage.googleapis.com/"+s.bucketName+"/")
}
