package imagestore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// GCS hosts images in a Cloud Storage bucket and serves them through
// firebasestorage.googleapis.com download URLs, one random token per object.
type GCS struct {
	client *storage.Client
	bucket string
	folder string
}

func NewGCS(client *storage.Client, bucket, folder string) *GCS {
	if folder == "" {
		folder = "faculty_wears"
	}
	return &GCS{client: client, bucket: bucket, folder: folder}
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

func (g *GCS) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if g.bucket == "" {
		return "", errors.New("storage bucket is not set")
	}
	if len(data) == 0 {
		return "", errors.New("image data is empty")
	}
	ext := extension(filename)
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	objectPath := fmt.Sprintf("%s/%s.%s", g.folder, uuid.NewString(), ext)
	token := uuid.NewString()

	w := g.client.Bucket(g.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentTypes[ext]
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := w.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	publicURL := fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		g.bucket, url.PathEscape(objectPath), token)
	return publicURL, nil
}

func (g *GCS) Delete(ctx context.Context, imageURL string) error {
	objectPath, err := objectPathFromURL(imageURL)
	if err != nil {
		return err
	}
	return g.client.Bucket(g.bucket).Object(objectPath).Delete(ctx)
}

// objectPathFromURL recovers the bucket object name from a download URL,
// i.e. the escaped path segment after /o/.
func objectPathFromURL(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}
	_, escaped, ok := strings.Cut(u.EscapedPath(), "/o/")
	if !ok || escaped == "" {
		return "", fmt.Errorf("no object path in %q", imageURL)
	}
	return url.PathUnescape(escaped)
}
