package errors

import (
	"maps"
	"strings"
)

// platformError backs every PlatformError built by this package. Backend
// failures reach callers as a platformError whose cause is the original
// fs.PathError or sentinel, so errors.Is keeps matching fs.ErrNotExist and
// friends after wrapping.
type platformError struct {
	code           ErrorCode
	classification ErrorClassification
	message        string
	context        map[string]interface{}
	cause          error
}

// Error renders "[CODE] message", followed by ": cause" when the error wraps
// a backend failure, e.g. "[NOT_FOUND] stat /a: stat /a: file does not exist".
func (e *platformError) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(e.code))
	b.WriteString("] ")
	b.WriteString(e.message)
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *platformError) Code() ErrorCode { return e.code }

func (e *platformError) Classification() ErrorClassification { return e.classification }

func (e *platformError) Message() string { return e.message }

// Context returns a copy of the attached metadata (op, path, flags for
// filesystem failures). Mutating it does not affect the error.
func (e *platformError) Context() map[string]interface{} {
	return maps.Clone(e.context)
}

// Unwrap exposes the backend failure.
func (e *platformError) Unwrap() error { return e.cause }
