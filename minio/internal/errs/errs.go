// Package errs translates MinIO errors for the minio backend.
package errs

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"net"

	"github.com/minio/minio-go/v7"

	"github.com/jmgilman/go/treefs/errors"
)

// Translate converts MinIO errors to fs sentinels where one applies and to
// classified platform errors for transport and service failures.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	errResp := minio.ToErrorResponse(err)
	switch errResp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return fs.ErrNotExist
	case "AccessDenied":
		return fs.ErrPermission
	case "RequestTimeout":
		return errors.Wrap(err, errors.CodeTimeout, "minio request timed out")
	case "SlowDown", "ServiceUnavailable", "XMinioServerNotInitialized":
		return errors.Wrap(err, errors.CodeUnavailable, "minio service unavailable")
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		if netErr.Timeout() {
			return errors.Wrap(err, errors.CodeTimeout, "minio request timed out")
		}
		return errors.Wrap(err, errors.CodeNetwork, "minio unreachable")
	}

	return fmt.Errorf("minio: %w", err)
}

// PathError wraps an error in a fs.PathError for the given operation and path.
// If the error is nil, returns nil.
func PathError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &fs.PathError{Op: op, Path: path, Err: err}
}

// PathErrorf creates a fs.PathError with a formatted error message.
func PathErrorf(op, path, format string, args ...interface{}) error {
	return &fs.PathError{Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}
