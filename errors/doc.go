// Package errors provides structured error handling for treefs.
//
// Every failure that leaves a filesystem handle is a PlatformError: it carries
// an error code (NOT_FOUND, NOT_A_DIRECTORY, ...), a retry classification, a
// human-readable message, and a context map describing the failed operation
// (operation name, path, open flags). The original cause stays reachable via
// Unwrap, so errors.Is(err, fs.ErrNotExist) keeps working on wrapped errors.
//
// # Creating errors
//
//	err := errors.New(errors.CodeInvalidInput, "empty path")
//	err := errors.Newf(errors.CodeNotADirectory, "%s is a file", p)
//
// # Wrapping backend failures
//
//	if err := backend.Remove(ctx, p); err != nil {
//	    return errors.WrapWithContext(err, errors.CodeNotFound, "remove failed", map[string]interface{}{
//	        "op":   "remove",
//	        "path": p,
//	    })
//	}
//
// # Inspecting errors
//
//	switch errors.GetCode(err) {
//	case errors.CodeNotFound:
//	    // path is gone
//	case errors.CodeNotEmpty:
//	    // use RemoveTree instead
//	}
//
// treefs performs no retries. Callers that want retry or backoff can consult
// IsRetryable, which is true only for transient remote-backend failures.
package errors
