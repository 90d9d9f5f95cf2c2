package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// Client archives generated artifacts. Archiving is best-effort; callers
// log failures instead of surfacing them.
type Client interface {
	SaveBytes(ctx context.Context, bucketName string, objectName string, data []byte) error
}

type gcsClient struct {
	storageClient *storage.Client
}

func New(storageClient *storage.Client) Client {
	return &gcsClient{storageClient: storageClient}
}

func (s *gcsClient) SaveBytes(ctx context.Context, bucketName string, objectName string, data []byte) error {
	bucket := s.storageClient.Bucket(bucketName)
	writer := bucket.Object(objectName).NewWriter(ctx)

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}
