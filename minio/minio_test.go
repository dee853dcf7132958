package minio

import (
	"context"
	"io/fs"
	"net"
	"os"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/treefs/core"
	"github.com/jmgilman/go/treefs/errors"
	"github.com/jmgilman/go/treefs/minio/internal/errs"
	"github.com/jmgilman/go/treefs/minio/internal/pathutil"
)

// TestConfigValidation tests Config.validate.
func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "missing bucket",
			config:  Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"},
			wantErr: true,
			errMsg:  "bucket is required",
		},
		{
			name:   "client only needs bucket",
			config: Config{Client: &minio.Client{}, Bucket: "b"},
		},
		{
			name:    "missing endpoint",
			config:  Config{Bucket: "b", AccessKey: "a", SecretKey: "s"},
			wantErr: true,
			errMsg:  "endpoint is required",
		},
		{
			name:    "missing access key",
			config:  Config{Bucket: "b", Endpoint: "localhost:9000", SecretKey: "s"},
			wantErr: true,
			errMsg:  "access key is required",
		},
		{
			name:    "missing secret key",
			config:  Config{Bucket: "b", Endpoint: "localhost:9000", AccessKey: "a"},
			wantErr: true,
			errMsg:  "secret key is required",
		},
		{
			name:   "complete connection config",
			config: Config{Bucket: "b", Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestNew tests the New constructor.
func TestNew(t *testing.T) {
	t.Run("invalid config returns error", func(t *testing.T) {
		b, err := New(Config{Endpoint: "localhost:9000"})
		require.Error(t, err)
		assert.Nil(t, b)
		assert.Contains(t, err.Error(), "invalid config")
	})

	t.Run("creates client from credentials", func(t *testing.T) {
		b, err := New(Config{Endpoint: "localhost:9000", Bucket: "b", AccessKey: "a", SecretKey: "s"})
		require.NoError(t, err)
		assert.NotNil(t, b.client)
		assert.Equal(t, core.FSTypeRemote, b.Type())
	})

	t.Run("defaults", func(t *testing.T) {
		b, err := New(Config{Client: &minio.Client{}, Bucket: "test-bucket"})
		require.NoError(t, err)
		assert.Equal(t, "test-bucket", b.bucket)
		assert.Equal(t, "", b.prefix)
		assert.Equal(t, int64(defaultMultipartThreshold), b.multipartThreshold)
	})

	t.Run("custom multipart threshold", func(t *testing.T) {
		b, err := New(Config{Client: &minio.Client{}, Bucket: "b", MultipartThreshold: 10 << 20})
		require.NoError(t, err)
		assert.Equal(t, int64(10<<20), b.multipartThreshold)
	})

	t.Run("prefix normalization", func(t *testing.T) {
		tests := []struct {
			prefix string
			want   string
		}{
			{"", ""},
			{".", ""},
			{"/", ""},
			{"myapp", "myapp"},
			{"/myapp/data/", "myapp/data"},
			{"myapp\\data", "myapp/data"},
			{"myapp/../data/./files", "data/files"},
			{"../escape", "escape"},
		}
		for _, tt := range tests {
			t.Run(tt.prefix, func(t *testing.T) {
				b, err := New(Config{Client: &minio.Client{}, Bucket: "b", Prefix: tt.prefix})
				require.NoError(t, err)
				assert.Equal(t, tt.want, b.prefix)
			})
		}
	})
}

// TestKey tests name to key mapping with and without a prefix.
func TestKey(t *testing.T) {
	tests := []struct {
		prefix string
		name   string
		want   string
	}{
		{"", "/", ""},
		{"", "", ""},
		{"", "/a/b.txt", "a/b.txt"},
		{"", "a/b.txt", "a/b.txt"},
		{"", "/../a", "a"},
		{"p", "/", "p"},
		{"p", "/a", "p/a"},
		{"p/q", "x/../y", "p/q/y"},
	}
	for _, tt := range tests {
		b := &Backend{prefix: tt.prefix}
		assert.Equal(t, tt.want, b.key(tt.name), "prefix %q name %q", tt.prefix, tt.name)
	}
}

// TestPathutil tests key helpers.
func TestPathutil(t *testing.T) {
	assert.Equal(t, ".", pathutil.Normalize(""))
	assert.Equal(t, ".", pathutil.Normalize("/"))
	assert.Equal(t, "a/b", pathutil.Normalize("//a//b/"))
	assert.Equal(t, "a/b", pathutil.Normalize("a\\b"))

	assert.Equal(t, "", pathutil.DirKey(""))
	assert.Equal(t, "a/", pathutil.DirKey("a"))

	name, isDir := pathutil.EntryName("a/", "a/b.txt")
	assert.Equal(t, "b.txt", name)
	assert.False(t, isDir)

	name, isDir = pathutil.EntryName("a/", "a/sub/")
	assert.Equal(t, "sub", name)
	assert.True(t, isDir)

	name, _ = pathutil.EntryName("a/", "a/")
	assert.Equal(t, "", name)

	name, _ = pathutil.EntryName("", "top.txt")
	assert.Equal(t, "top.txt", name)
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// TestTranslate tests the errs.Translate function for error translation.
func TestTranslate(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.Nil(t, errs.Translate(nil))
	})

	t.Run("codes map to sentinels", func(t *testing.T) {
		assert.ErrorIs(t, errs.Translate(minio.ErrorResponse{Code: "NoSuchKey"}), fs.ErrNotExist)
		assert.ErrorIs(t, errs.Translate(minio.ErrorResponse{Code: "NoSuchBucket"}), fs.ErrNotExist)
		assert.ErrorIs(t, errs.Translate(minio.ErrorResponse{Code: "AccessDenied"}), fs.ErrPermission)
	})

	t.Run("service failures are retryable", func(t *testing.T) {
		err := errs.Translate(minio.ErrorResponse{Code: "SlowDown"})
		assert.Equal(t, errors.CodeUnavailable, errors.GetCode(err))
		assert.True(t, errors.IsRetryable(err))

		err = errs.Translate(minio.ErrorResponse{Code: "RequestTimeout"})
		assert.Equal(t, errors.CodeTimeout, errors.GetCode(err))
	})

	t.Run("network errors", func(t *testing.T) {
		err := errs.Translate(&net.OpError{Op: "dial", Net: "tcp", Err: os.ErrPermission})
		assert.Equal(t, errors.CodeNetwork, errors.GetCode(err))

		err = errs.Translate(timeoutError{})
		assert.Equal(t, errors.CodeTimeout, errors.GetCode(err))
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		err := errs.Translate(minio.ErrorResponse{Code: "InternalError", Message: "Something went wrong"})
		assert.Contains(t, err.Error(), "minio:")
		assert.Contains(t, err.Error(), "Something went wrong")
	})
}

// TestOpen_ReadWriteUnsupported verifies O_RDWR is rejected before any request.
func TestOpen_ReadWriteUnsupported(t *testing.T) {
	b := &Backend{bucket: "b"}
	_, err := b.Open(context.Background(), "/f.txt", os.O_RDWR)
	assert.ErrorIs(t, err, core.ErrUnsupported)
}

// TestRemoveDirectory_Root verifies the backend root cannot be removed.
func TestRemoveDirectory_Root(t *testing.T) {
	b := &Backend{bucket: "b"}
	for _, name := range []string{"/", "", "."} {
		assert.ErrorIs(t, b.RemoveDirectory(context.Background(), name), fs.ErrPermission)
	}
}

// TestStat_Root verifies the bucket root is a directory without a request.
func TestStat_Root(t *testing.T) {
	b := &Backend{bucket: "b"}
	st, err := b.Stat(context.Background(), "/")
	require.NoError(t, err)
	assert.True(t, st.IsDirectory())
	assert.Equal(t, "/", st.Name)
}
