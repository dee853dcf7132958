package errors

// ErrorClassification indicates whether a failed operation could succeed if repeated.
// treefs never retries on its own; the classification is there for callers that
// layer retry or backoff on top of a filesystem handle.
type ErrorClassification string

const (
	// ClassificationRetryable indicates temporary failures that may succeed on retry.
	// Examples: network timeouts, an object store that is briefly unavailable.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent indicates failures that will not succeed on retry.
	// Examples: missing paths, listing a file, permission denials.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry could help.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// defaultClassifications maps error codes to their default classification.
var defaultClassifications = map[ErrorCode]ErrorClassification{
	// Retryable errors (temporary failures)
	CodeTimeout:     ClassificationRetryable,
	CodeNetwork:     ClassificationRetryable,
	CodeUnavailable: ClassificationRetryable,

	// Permanent errors
	CodeNotFound:       ClassificationPermanent,
	CodeAlreadyExists:  ClassificationPermanent,
	CodeNotADirectory:  ClassificationPermanent,
	CodeIsADirectory:   ClassificationPermanent,
	CodeNotEmpty:       ClassificationPermanent,
	CodeForbidden:      ClassificationPermanent,
	CodeInvalidInput:   ClassificationPermanent,
	CodeInvalidConfig:  ClassificationPermanent,
	CodeNotSupported:   ClassificationPermanent,
	CodeInternal:       ClassificationPermanent,
	CodeUnknown:        ClassificationPermanent,
}

// getDefaultClassification returns the default classification for an error code.
// Returns ClassificationPermanent if the code is not in the map.
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
