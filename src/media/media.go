// Package media stores user-supplied images (post images, profile and banner
// pictures) in a public bucket.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"
)

var (
	ErrInvalidImage = errors.New("invalid image data")
	ErrDisabled     = errors.New("image uploads are not configured")
)

// ImageStore uploads data URIs and destroys previously uploaded images by URL.
type ImageStore interface {
	Upload(ctx context.Context, dataURI string) (string, error)
	Destroy(ctx context.Context, imageURL string) error
}

// Image is a decoded data URI.
type Image struct {
	ContentType string
	Data        []byte
}

// Extension picks a file extension for the image's content type.
func (i Image) Extension() string {
	switch i.ContentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	if exts, _ := mime.ExtensionsByType(i.ContentType); len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// ParseDataURI decodes "data:<mime>;base64,<payload>". Only image types are accepted.
func ParseDataURI(s string) (Image, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing data: prefix", ErrInvalidImage)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing payload", ErrInvalidImage)
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return Image{}, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidImage)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return Image{}, fmt.Errorf("%w: unsupported content type %q", ErrInvalidImage, contentType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	return Image{ContentType: contentType, Data: data}, nil
}

// IsDataURI reports whether s should be uploaded rather than stored as a URL.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ObjectName extracts the stored object's name from its public URL: the last
// path segment, without query or fragment.
func ObjectName(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil || u.Path == "" {
		return ""
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return ""
	}
	return name
}

// Disabled rejects uploads; destroying is a no-op so posts without a
// configured bucket can still be deleted.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, dataURI string) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Destroy(ctx context.Context, imageURL string) error {
	return nil
}
