package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// Bucket is the subset of a GCS bucket the store needs.
type Bucket interface {
	Write(ctx context.Context, name, contentType string, data []byte) error
	Delete(ctx context.Context, name string) error
}

type GCSStore struct {
	bucket     Bucket
	bucketName string
	baseURL    string
	client     io.Closer
}

// NewGCSStore connects to the bucket with the service account key at
// credentialsFile, or application default credentials when it is empty.
func NewGCSStore(ctx context.Context, bucketName, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key not found at path: %s", credentialsFile)
		}
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	s := NewGCSStoreWithBucket(&gcsBucket{handle: client.Bucket(bucketName)}, bucketName)
	s.client = client
	return s, nil
}

func NewGCSStoreWithBucket(b Bucket, bucketName string) *GCSStore {
	return &GCSStore{
		bucket:     b,
		bucketName: bucketName,
		baseURL:    "https://storage.googleapis.com/" + bucketName + "/",
	}
}

// Close releases the storage client, if the store owns one.
func (s *GCSStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *GCSStore) Upload(ctx context.Context, dataURI string) (string, error) {
	img, err := ParseDataURI(dataURI)
	if err != nil {
		return "", err
	}

	name := uuid.NewString() + img.Extension()
	if err := s.bucket.Write(ctx, name, img.ContentType, img.Data); err != nil {
		return "", fmt.Errorf("upload %s to gs://%s: %w", name, s.bucketName, err)
	}
	return s.baseURL + name, nil
}

func (s *GCSStore) Destroy(ctx context.Context, imageURL string) error {
	name := ObjectName(imageURL)
	if name == "" {
		return fmt.Errorf("%w: cannot derive object name from %q", ErrInvalidImage, imageURL)
	}

	err := s.bucket.Delete(ctx, name)
	if errors.Is(err, storage.ErrObjectNotExist) {
		slog.Warn("image already gone", "object", name, "bucket", s.bucketName)
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete gs://%s/%s: %w", s.bucketName, name, err)
	}
	return nil
}

type gcsBucket struct {
	handle *storage.BucketHandle
}

func (b *gcsBucket) Write(ctx context.Context, name, contentType string, data []byte) error {
	w := b.handle.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (b *gcsBucket) Delete(ctx context.Context, name string) error {
	return b.handle.Object(name).Delete(ctx)
}
