package core

import (
	stderrors "errors"
	"io/fs"
	"os"
	"syscall"

	"github.com/jmgilman/go/treefs/errors"
)

var (
	// ErrNotExist is returned when a file or directory does not exist.
	// Re-exported from io/fs for convenience.
	ErrNotExist = fs.ErrNotExist

	// ErrExist is returned when a file or directory already exists.
	// Re-exported from io/fs for convenience.
	ErrExist = fs.ErrExist

	// ErrPermission is returned when permission is denied.
	// Re-exported from io/fs for convenience.
	ErrPermission = fs.ErrPermission

	// ErrClosed is returned when an operation is performed on a closed file.
	// Re-exported from io/fs for convenience.
	ErrClosed = fs.ErrClosed

	// ErrUnsupported is returned when an operation is not supported by the backend.
	// For example, symbolic links on an object store.
	ErrUnsupported = stderrors.New("operation not supported")

	// ErrNotDirectory is returned when a directory operation targets a non-directory.
	ErrNotDirectory = stderrors.New("not a directory")

	// ErrIsDirectory is returned when a file operation targets a directory.
	ErrIsDirectory = stderrors.New("is a directory")

	// ErrNotEmpty is returned when removing a directory that still has entries.
	ErrNotEmpty = stderrors.New("directory not empty")
)

// PathError wraps err in a *fs.PathError for the given operation and path.
// Returns nil if err is nil.
func PathError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &fs.PathError{Op: op, Path: path, Err: err}
}

// IsNotExist reports whether err indicates a missing node, either through the
// fs.ErrNotExist sentinel or a NOT_FOUND error code.
func IsNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist) || errors.HasCode(err, errors.CodeNotFound)
}

// IsExist reports whether err indicates an already existing node.
func IsExist(err error) bool {
	return stderrors.Is(err, fs.ErrExist) || errors.HasCode(err, errors.CodeAlreadyExists)
}

// IsNotDirectory reports whether err indicates that a directory operation
// targeted a non-directory.
func IsNotDirectory(err error) bool {
	return err != nil && Classify(err) == errors.CodeNotADirectory
}

// Classify maps a backend failure to an error code.
func Classify(err error) errors.ErrorCode {
	var platformErr errors.PlatformError
	switch {
	case err == nil:
		return errors.CodeUnknown
	case stderrors.As(err, &platformErr):
		return platformErr.Code()
	case stderrors.Is(err, fs.ErrNotExist):
		return errors.CodeNotFound
	case stderrors.Is(err, ErrNotEmpty), stderrors.Is(err, syscall.ENOTEMPTY):
		// checked before fs.ErrExist, which ENOTEMPTY also matches
		return errors.CodeNotEmpty
	case stderrors.Is(err, fs.ErrExist):
		return errors.CodeAlreadyExists
	case stderrors.Is(err, ErrNotDirectory), stderrors.Is(err, syscall.ENOTDIR):
		return errors.CodeNotADirectory
	case stderrors.Is(err, ErrIsDirectory), stderrors.Is(err, syscall.EISDIR):
		return errors.CodeIsADirectory
	case stderrors.Is(err, fs.ErrPermission):
		return errors.CodeForbidden
	case stderrors.Is(err, ErrUnsupported), stderrors.Is(err, stderrors.ErrUnsupported):
		return errors.CodeNotSupported
	case stderrors.Is(err, os.ErrDeadlineExceeded):
		return errors.CodeTimeout
	default:
		return errors.CodeUnknown
	}
}

// WrapPathError wraps a backend failure with the operation, path and open
// flags that produced it. The code is derived from the cause with Classify.
// Returns nil if err is nil.
func WrapPathError(op, path string, flag int, err error) error {
	if err == nil {
		return nil
	}

	ctx := map[string]interface{}{
		"op":   op,
		"path": path,
	}
	if flag >= 0 {
		ctx["flags"] = FlagString(flag)
	}
	return errors.WrapWithContext(err, Classify(err), op+" "+path, ctx)
}
