package bootstrap

import (
	"context"
	"fmt"

	"github.com/roomify-app/roomify-backend/config"
	"github.com/roomify-app/roomify-backend/internal/hosting"
)

func OpenHostingBackend(ctx context.Context, cfg config.HostingConfig) (hosting.Backend, error) {
	switch cfg.Backend {
	case "fs":
		return hosting.NewFSBackend(cfg.RootDir)
	case "s3":
		return hosting.NewS3Backend(ctx, hosting.S3Options{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown hosting backend %q", cfg.Backend)
	}
}
