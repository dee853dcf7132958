package errors

import "errors"

// asPlatformError returns err as a PlatformError, converting plain errors into
// one with CodeUnknown so context can be attached uniformly.
func asPlatformError(err error) PlatformError {
	var platformErr PlatformError
	if errors.As(err, &platformErr) {
		return platformErr
	}
	return &platformError{
		code:           CodeUnknown,
		classification: ClassificationPermanent,
		message:        err.Error(),
		cause:          err,
	}
}

// derive copies platformErr with a merged context and the given classification.
func derive(platformErr PlatformError, classification ErrorClassification, extra map[string]interface{}) *platformError {
	var newContext map[string]interface{}
	existing := platformErr.Context()
	if len(existing) > 0 || len(extra) > 0 {
		newContext = make(map[string]interface{}, len(existing)+len(extra))
		for k, v := range existing {
			newContext[k] = v
		}
		// New fields override existing
		for k, v := range extra {
			newContext[k] = v
		}
	}

	return &platformError{
		code:           platformErr.Code(),
		classification: classification,
		message:        platformErr.Message(),
		context:        newContext,
		cause:          platformErr.Unwrap(),
	}
}

// WithContext adds a single context field to an error.
// Returns a new PlatformError with the context field added.
// Existing context fields are preserved.
//
// If err is not a PlatformError, it is converted to one with CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	err := errors.New(errors.CodeNotFound, "no such file")
//	err = errors.WithContext(err, "path", "/srv/data/a.txt")
func WithContext(err error, key string, value interface{}) PlatformError {
	if err == nil {
		return nil
	}

	platformErr := asPlatformError(err)
	return derive(platformErr, platformErr.Classification(), map[string]interface{}{key: value})
}

// WithContextMap adds multiple context fields to an error.
// Existing context fields are preserved; new fields override existing ones with the same key.
//
// If err is not a PlatformError, it is converted to one with CodeUnknown.
// Returns nil if err is nil.
func WithContextMap(err error, ctx map[string]interface{}) PlatformError {
	if err == nil {
		return nil
	}

	platformErr := asPlatformError(err)
	return derive(platformErr, platformErr.Classification(), ctx)
}

// WithClassification overrides the classification of an error.
//
// If err is not a PlatformError, it is converted to one with CodeUnknown.
// Returns nil if err is nil.
func WithClassification(err error, classification ErrorClassification) PlatformError {
	if err == nil {
		return nil
	}

	return derive(asPlatformError(err), classification, nil)
}
