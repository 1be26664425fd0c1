// Package provider builds a filestore.Store from a filestore.Config.
//
// Usage:
//
//	store, err := provider.Open(ctx, cfg, log)
//	if err != nil { ... }
//	res := store.GetTextFile(ctx, "notes/today.txt")
package provider

import (
	"context"
	"fmt"

	"github.com/koustreak/objstore/internal/errs"
	"github.com/koustreak/objstore/internal/filestore"
	"github.com/koustreak/objstore/internal/filestore/bucket"
	"github.com/koustreak/objstore/internal/filestore/local"
	"github.com/koustreak/objstore/internal/filestore/minio"
	"github.com/koustreak/objstore/internal/filestore/s3"
	"github.com/koustreak/objstore/internal/logger"
)

// Open normalises and validates cfg, then binds a Store to the location it
// names. cfg is modified in place. A nil log falls back to the logger
// stored in ctx (see logger.WithContext), or to a no-op logger.
//
// Only the local provider touches storage here (its root must exist);
// bucket providers report connectivity problems on the first operation.
func Open(ctx context.Context, cfg *filestore.Config, log *logger.Logger) (filestore.Store, error) {
	if log == nil {
		log = logger.FromContext(ctx)
	}
	if cfg == nil {
		err := errs.New(errs.ErrKindInvalidConfig, "store config is required")
		log.ErrorWith("open store failed", err, nil)
		return nil, err
	}

	cfg.Normalize()
	cfg.ApplyDefaults()
	store, err := open(ctx, cfg, log)
	if err != nil {
		log.ErrorWith("open store failed", err, map[string]interface{}{
			"provider": string(cfg.Provider),
		})
		return nil, err
	}

	log.Infof("opened %s store", store)
	return store, nil
}

func open(ctx context.Context, cfg *filestore.Config, log *logger.Logger) (filestore.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case filestore.ProviderLocal:
		return local.New(cfg.Root, local.WithLogger(log))
	case filestore.ProviderMinIO:
		driver, err := minio.New(cfg)
		if err != nil {
			return nil, err
		}
		return bucket.New(driver, bucket.WithLogger(log)), nil
	case filestore.ProviderS3, filestore.ProviderSpaces:
		client, err := s3.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return bucket.New(client, bucket.WithLogger(log)), nil
	default:
		return nil, errs.New(errs.ErrKindInvalidConfig, fmt.Sprintf("unknown provider %q", cfg.Provider))
	}
}
