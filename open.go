package treefs

import (
	"context"
	"os"

	"github.com/jmgilman/go/treefs/billy"
	"github.com/jmgilman/go/treefs/config"
	"github.com/jmgilman/go/treefs/core"
	"github.com/jmgilman/go/treefs/errors"
	"github.com/jmgilman/go/treefs/internal/logging"
	"github.com/jmgilman/go/treefs/minio"
)

// Open builds a handle from cfg. Logs go to stderr at cfg.LogLevel unless
// opts supply a logger. A minio bucket is checked for reachability before
// returning.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*FS, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to configure logging")
	}
	base := []Option{WithLogger(logging.Component(logger, "treefs"))}
	if cfg.WorkingDirectory != "" {
		base = append(base, WithWorkingDirectory(cfg.WorkingDirectory))
	}
	opts = append(base, opts...)

	switch cfg.Backend {
	case config.BackendDisk:
		if cfg.Root == "" {
			return NewDisk(opts...), nil
		}
		return New(billy.NewLocal(billy.WithRoot(cfg.Root)), opts...), nil

	case config.BackendMemory:
		return NewMemory(opts...), nil

	case config.BackendMock:
		files := make(map[string][]byte, len(cfg.Files))
		for p, content := range cfg.Files {
			files[p] = []byte(content)
		}
		return NewMock(files, opts...), nil

	case config.BackendMinio:
		backend, err := minio.New(minio.Config{
			Endpoint:  cfg.Minio.Endpoint,
			Bucket:    cfg.Minio.Bucket,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
			Prefix:    cfg.Minio.Prefix,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create minio backend")
		}
		if err := backend.Ping(ctx); err != nil {
			return nil, errors.WithContext(
				errors.Wrap(err, core.Classify(err), "minio bucket unavailable"),
				"bucket", cfg.Minio.Bucket,
			)
		}
		return New(backend, opts...), nil
	}

	// unreachable after Validate
	return nil, errors.Newf(errors.CodeInvalidConfig, "unknown backend %q", cfg.Backend)
}
