package imagestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/acadwear/faculty-wear-api/internal/config"
)

// FromConfig builds the configured image store backend.
func FromConfig(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.ImageBackend {
	case "", "cloudinary":
		return NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.UploadFolder, nil), nil
	case "gcs":
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("init storage client: %w", err)
		}
		return NewGCS(client, cfg.StorageBucket, cfg.UploadFolder), nil
	default:
		return nil, fmt.Errorf("unknown image backend %q", cfg.ImageBackend)
	}
}
