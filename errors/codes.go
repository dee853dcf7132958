package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates a path does not resolve to any node.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a node already exists and cannot be created again.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeNotADirectory indicates a directory operation was applied to a non-directory.
	CodeNotADirectory ErrorCode = "NOT_A_DIRECTORY"

	// CodeIsADirectory indicates a file operation was applied to a directory.
	CodeIsADirectory ErrorCode = "IS_A_DIRECTORY"

	// CodeNotEmpty indicates a directory could not be removed because it has entries.
	CodeNotEmpty ErrorCode = "NOT_EMPTY"

	// Permission errors.

	// CodeForbidden indicates the backend denied access to the path.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeNotSupported indicates the backend does not support the requested operation or flag.
	CodeNotSupported ErrorCode = "NOT_SUPPORTED"

	// Infrastructure errors.

	// CodeNetwork indicates a network operation failed (remote backends).
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeUnavailable indicates the backend is temporarily unavailable.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
