package media

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]string
	failErr error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string]string{}}
}

func (b *fakeBucket) Write(ctx context.Context, name, contentType string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failErr != nil {
		return b.failErr
	}
	b.objects[name] = contentType
	return nil
}

func (b *fakeBucket) Delete(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failErr != nil {
		return b.failErr
	}
	if _, ok := b.objects[name]; !ok {
		return storage.ErrObjectNotExist
	}
	delete(b.objects, name)
	return nil
}

func pngURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG fake"))
}

func TestParseDataURI(t *testing.T) {
	img, err := ParseDataURI(pngURI())
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Extension())

	for _, bad := range []string{
		"https://example.com/a.png",
		"data:image/png;base64",
		"data:text/plain;base64,aGk=",
		"data:image/png,rawbytes",
		"data:image/png;base64,***",
		"data:image/png;base64,",
	} {
		_, err := ParseDataURI(bad)
		assert.ErrorIs(t, err, ErrInvalidImage, bad)
	}
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "abc.png", ObjectName("https://storage.googleapis.com/bucket/abc.png"))
	assert.Equal(t, "abc.png", ObjectName("https://cdn.example.com/x/y/abc.png?v=2#frag"))
	assert.Equal(t, "", ObjectName("https://storage.googleapis.com/"))
	assert.Equal(t, "", ObjectName(""))
}

func TestGCSStoreUploadAndDestroy(t *testing.T) {
	bucket := newFakeBucket()
	s := NewGCSStoreWithBucket(bucket, "linkup-media")
	ctx := context.Background()

	url, err := s.Upload(ctx, pngURI())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://storage.googleapis.com/linkup-media/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	assert.Equal(t, "image/png", bucket.objects[ObjectName(url)])

	require.NoError(t, s.Destroy(ctx, url))
	assert.Empty(t, bucket.objects)

	// a second destroy finds nothing and is tolerated
	assert.NoError(t, s.Destroy(ctx, url))
}

func TestGCSStoreErrors(t *testing.T) {
	bucket := newFakeBucket()
	s := NewGCSStoreWithBucket(bucket, "linkup-media")
	ctx := context.Background()

	_, err := s.Upload(ctx, "not-a-data-uri")
	assert.ErrorIs(t, err, ErrInvalidImage)

	bucket.failErr = errors.New("permission denied")
	_, err = s.Upload(ctx, pngURI())
	assert.ErrorContains(t, err, "permission denied")
	assert.ErrorContains(t, s.Destroy(ctx, "https://storage.googleapis.com/linkup-media/a.png"), "permission denied")
}

func TestNewGCSStoreMissingKey(t *testing.T) {
	_, err := NewGCSStore(context.Background(), "b", "/nonexistent/key.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service account key not found")
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Upload(context.Background(), pngURI())
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, Disabled{}.Destroy(context.Background(), "https://x/y.png"))
}

type closeCounter struct {
	calls int
}

func (c *closeCounter) Close() error {
	c.calls++
	return nil
}

func TestGCSStoreClose(t *testing.T) {
	s := NewGCSStoreWithBucket(newFakeBucket(), "linkup-media")
	require.NoError(t, s.Close())

	client := &closeCounter{}
	s.client = client
	require.NoError(t, s.Close())
	assert.Equal(t, 1, client.calls)
}
