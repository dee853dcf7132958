package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/treefs/errors"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
backend: minio
working_directory: /work
log_level: debug
minio:
  endpoint: localhost:9000
  bucket: data
  access_key: ak
  secret_key: sk
  use_ssl: true
  prefix: app
`))
	require.NoError(t, err)

	assert.Equal(t, BackendMinio, cfg.Backend)
	assert.Equal(t, "/work", cfg.WorkingDirectory)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, MinioConfig{
		Endpoint:  "localhost:9000",
		Bucket:    "data",
		AccessKey: "ak",
		SecretKey: "sk",
		UseSSL:    true,
		Prefix:    "app",
	}, cfg.Minio)
	assert.NoError(t, cfg.Validate())
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("bakend: disk\n"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
}

func TestParse_MockFiles(t *testing.T) {
	cfg, err := Parse([]byte(`
backend: mock
files:
  a/b.txt: hello
  c.txt: ""
`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a/b.txt": "hello", "c.txt": ""}, cfg.Files)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "treefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: memory\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TREEFS_BACKEND":          "minio",
		"TREEFS_LOG_LEVEL":        "warn",
		"TREEFS_MINIO_ENDPOINT":   "s3.local:9000",
		"TREEFS_MINIO_BUCKET":     "b",
		"TREEFS_MINIO_ACCESS_KEY": "ak",
		"TREEFS_MINIO_SECRET_KEY": "sk",
		"TREEFS_MINIO_USE_SSL":    "true",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	cfg.WorkingDirectory = "/kept"
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, BackendMinio, cfg.Backend)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/kept", cfg.WorkingDirectory)
	assert.Equal(t, "s3.local:9000", cfg.Minio.Endpoint)
	assert.True(t, cfg.Minio.UseSSL)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_InvalidBool(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		if k == "TREEFS_MINIO_USE_SSL" {
			return "maybe", true
		}
		return "", false
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TREEFS_TEST_ENVFILE_BACKEND=mock\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("TREEFS_TEST_ENVFILE_BACKEND") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "mock", os.Getenv("TREEFS_TEST_ENVFILE_BACKEND"))

	assert.Error(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoadEnvFile_NoDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NoError(t, LoadEnvFile())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Backend = "tape" }, "unknown backend"},
		{"minio without endpoint", func(c *Config) { c.Backend = BackendMinio }, "minio.endpoint"},
		{"minio without bucket", func(c *Config) {
			c.Backend = BackendMinio
			c.Minio.Endpoint = "x"
		}, "minio.bucket"},
		{"minio without keys", func(c *Config) {
			c.Backend = BackendMinio
			c.Minio.Endpoint = "x"
			c.Minio.Bucket = "b"
		}, "access_key"},
		{"files on disk", func(c *Config) { c.Files = map[string]string{"a": "b"} }, "mock"},
		{"root on mock", func(c *Config) {
			c.Backend = BackendMock
			c.Root = "/tmp"
		}, "root only applies"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
		})
	}
}
