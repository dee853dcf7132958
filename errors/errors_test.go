package errors

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeNotFound, "no such file")

	require.Equal(t, CodeNotFound, err.Code())
	require.Equal(t, "no such file", err.Message())
	require.Equal(t, ClassificationPermanent, err.Classification())
	require.Nil(t, err.Unwrap())
	require.Nil(t, err.Context())
	require.Equal(t, "[NOT_FOUND] no such file", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(CodeNotEmpty, "directory %s has %d entries", "/a", 3)
	require.Equal(t, "directory /a has 3 entries", err.Message())
}

func TestDefaultClassification(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want ErrorClassification
	}{
		{CodeTimeout, ClassificationRetryable},
		{CodeNetwork, ClassificationRetryable},
		{CodeUnavailable, ClassificationRetryable},
		{CodeNotFound, ClassificationPermanent},
		{CodeNotADirectory, ClassificationPermanent},
		{CodeAlreadyExists, ClassificationPermanent},
		{ErrorCode("SOMETHING_ELSE"), ClassificationPermanent},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			require.Equal(t, tt.want, New(tt.code, "x").Classification())
		})
	}
}

func TestWrap(t *testing.T) {
	err := Wrap(fs.ErrNotExist, CodeNotFound, "read /a")

	require.Equal(t, CodeNotFound, err.Code())
	require.True(t, stderrors.Is(err, fs.ErrNotExist))
	require.Equal(t, "[NOT_FOUND] read /a: file does not exist", err.Error())
}

func TestWrap_PathError(t *testing.T) {
	cause := &fs.PathError{Op: "open", Path: "/a/b", Err: fs.ErrNotExist}
	err := WithContext(Wrap(cause, CodeNotFound, "open /a/b"), "op", "open")

	require.Equal(t, "[NOT_FOUND] open /a/b: open /a/b: file does not exist", err.Error())
	require.ErrorIs(t, err, fs.ErrNotExist)

	var pathErr *fs.PathError
	require.ErrorAs(t, err, &pathErr)
	require.Equal(t, "/a/b", pathErr.Path)
	require.Equal(t, map[string]interface{}{"op": "open"}, err.Context())
}

func TestWrap_NilError(t *testing.T) {
	require.Nil(t, Wrap(nil, CodeNotFound, "test"))
	require.Nil(t, Wrapf(nil, CodeNotFound, "test %s", "arg"))
	require.Nil(t, WrapWithContext(nil, CodeNotFound, "test", map[string]interface{}{"a": 1}))
	require.Nil(t, WithContext(nil, "k", "v"))
	require.Nil(t, WithContextMap(nil, nil))
	require.Nil(t, WithClassification(nil, ClassificationRetryable))
}

func TestWrap_PreservesClassification(t *testing.T) {
	original := New(CodeTimeout, "timeout")
	wrapped := Wrap(original, CodeNotFound, "stat timed out")

	require.True(t, wrapped.Classification().IsRetryable())
}

func TestWrapWithContext_CopiesMap(t *testing.T) {
	ctx := map[string]interface{}{"op": "read", "path": "/a"}
	err := WrapWithContext(fs.ErrNotExist, CodeNotFound, "read failed", ctx)

	ctx["path"] = "/mutated"
	require.Equal(t, "/a", err.Context()["path"])

	got := err.Context()
	got["op"] = "mutated"
	require.Equal(t, "read", err.Context()["op"])
}

func TestWithContext(t *testing.T) {
	err := New(CodeNotFound, "missing")
	err = WithContext(err, "path", "/a")
	err = WithContext(err, "op", "stat")

	require.Equal(t, CodeNotFound, err.Code())
	require.Equal(t, map[string]interface{}{"path": "/a", "op": "stat"}, err.Context())
}

func TestWithContext_StandardError(t *testing.T) {
	cause := stderrors.New("boom")
	err := WithContext(cause, "path", "/a")

	require.Equal(t, CodeUnknown, err.Code())
	require.Equal(t, "boom", err.Message())
	require.ErrorIs(t, err, cause)
}

func TestWithContextMap_Overrides(t *testing.T) {
	err := WrapWithContext(fs.ErrExist, CodeAlreadyExists, "mkdir", map[string]interface{}{"path": "/a", "op": "mkdir"})
	err = WithContextMap(err, map[string]interface{}{"path": "/b"})

	require.Equal(t, "/b", err.Context()["path"])
	require.Equal(t, "mkdir", err.Context()["op"])
	require.ErrorIs(t, err, fs.ErrExist)
}

func TestWithClassification(t *testing.T) {
	err := WithClassification(New(CodeNotFound, "missing"), ClassificationRetryable)

	require.Equal(t, CodeNotFound, err.Code())
	require.True(t, IsRetryable(err))
}

func TestHelpers(t *testing.T) {
	wrapped := Wrap(New(CodeNetwork, "connection reset"), CodeUnavailable, "stat /a")

	require.Equal(t, CodeUnavailable, GetCode(wrapped))
	require.True(t, HasCode(wrapped, CodeUnavailable))
	require.False(t, HasCode(nil, CodeUnknown))
	require.Equal(t, CodeUnknown, GetCode(nil))
	require.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	require.Equal(t, ClassificationPermanent, GetClassification(nil))
	require.True(t, IsRetryable(wrapped))
	require.False(t, IsRetryable(stderrors.New("plain")))

	var platformErr PlatformError
	require.True(t, As(wrapped, &platformErr))
	require.True(t, Is(wrapped, wrapped.Unwrap()))
}
