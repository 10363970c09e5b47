package storage

import (
	"context"

	"vidshare/internal/config"
)

// New picks the signer for the configured provider.
func New(ctx context.Context, cfg config.StorageConfig) (UploadSigner, error) {
	switch cfg.Provider {
	case config.StorageImageKit:
		return NewImageKitSigner(cfg.ImageKit), nil
	case config.StorageS3:
		return NewS3Signer(ctx, cfg.S3)
	default:
		return Disabled(), nil
	}
}
