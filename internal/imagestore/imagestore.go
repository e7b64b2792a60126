package imagestore

import (
	"context"
	"errors"
	"strings"
)

// Store hosts catalog images on a remote service. Upload rejects files
// whose extension is not in the image whitelist before any remote call.
type Store interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

var ErrUnsupportedType = errors.New("unsupported image type")

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

func allowedFile(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[i+1:])]
}

func extension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// PublicIDFromURL derives the remote object identifier from a hosted image
// URL as "<folder>/<filename-without-extension>", using the URL's last two
// path segments. This breaks on hosts that nest folders more than one level
// deep; catalog uploads never do.
func PublicIDFromURL(imageURL string) string {
	parts := strings.Split(imageURL, "/")
	name := parts[len(parts)-1]
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	if len(parts) < 2 {
		return name
	}
	return parts[len(parts)-2] + "/" + name
}
