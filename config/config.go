// Package config loads the configuration used to open a treefs handle.
//
// Configuration comes from a YAML file, optionally overridden by TREEFS_*
// environment variables. LoadEnvFile populates the environment from .env
// files first.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/go/treefs/errors"
	"github.com/jmgilman/go/treefs/internal/logging"
)

// ErrConfigNotFound is returned by Load when the config file does not exist.
var ErrConfigNotFound = stderrors.New("config file not found")

// Backend names a storage backend.
type Backend string

// Supported backends.
const (
	BackendDisk   Backend = "disk"
	BackendMemory Backend = "memory"
	BackendMock   Backend = "mock"
	BackendMinio  Backend = "minio"
)

// MinioConfig holds the remote backend settings.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Prefix    string `yaml:"prefix,omitempty"`
}

// Config describes which backend to open and how.
type Config struct {
	Backend Backend `yaml:"backend"`

	// Root roots the disk backend at a host directory. Empty means the host
	// root with the process working directory as the handle's.
	Root string `yaml:"root,omitempty"`

	// WorkingDirectory overrides the directory relative paths resolve
	// against.
	WorkingDirectory string `yaml:"working_directory,omitempty"`

	LogLevel string `yaml:"log_level,omitempty"`

	// Files seeds the mock backend (path -> content).
	Files map[string]string `yaml:"files,omitempty"`

	Minio MinioConfig `yaml:"minio,omitempty"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		Backend:  BackendDisk,
		LogLevel: "info",
	}
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse config")
	}
	return &cfg, nil
}

// LoadEnvFile loads environment variables from the given .env files without
// overriding variables already set. With no paths it loads ".env" from the
// working directory if present.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		if _, err := os.Stat(".env"); os.IsNotExist(err) {
			return nil
		}
	}
	if err := godotenv.Load(paths...); err != nil {
		return errors.Wrap(err, errors.CodeInvalidConfig, "failed to load env file")
	}
	return nil
}

// ApplyEnv overrides fields from TREEFS_* variables found through lookup,
// typically os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"TREEFS_ROOT", &c.Root},
		{"TREEFS_WORKING_DIRECTORY", &c.WorkingDirectory},
		{"TREEFS_LOG_LEVEL", &c.LogLevel},
		{"TREEFS_MINIO_ENDPOINT", &c.Minio.Endpoint},
		{"TREEFS_MINIO_BUCKET", &c.Minio.Bucket},
		{"TREEFS_MINIO_ACCESS_KEY", &c.Minio.AccessKey},
		{"TREEFS_MINIO_SECRET_KEY", &c.Minio.SecretKey},
		{"TREEFS_MINIO_PREFIX", &c.Minio.Prefix},
	}
	for _, s := range strs {
		if v, ok := lookup(s.name); ok {
			*s.dst = v
		}
	}

	if v, ok := lookup("TREEFS_BACKEND"); ok {
		c.Backend = Backend(v)
	}
	if v, ok := lookup("TREEFS_MINIO_USE_SSL"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.WithContext(
				errors.Wrap(err, errors.CodeInvalidConfig, "invalid boolean"),
				"variable", "TREEFS_MINIO_USE_SSL",
			)
		}
		c.Minio.UseSSL = b
	}
	return nil
}

// Validate reports the first problem that would prevent opening a handle.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendDisk, BackendMemory, BackendMock:
	case BackendMinio:
		m := c.Minio
		switch {
		case m.Endpoint == "":
			return errors.New(errors.CodeInvalidConfig, "minio.endpoint is required")
		case m.Bucket == "":
			return errors.New(errors.CodeInvalidConfig, "minio.bucket is required")
		case m.AccessKey == "" || m.SecretKey == "":
			return errors.New(errors.CodeInvalidConfig, "minio.access_key and minio.secret_key are required")
		}
	default:
		return errors.Newf(errors.CodeInvalidConfig, "unknown backend %q", c.Backend)
	}

	if len(c.Files) > 0 && c.Backend != BackendMock {
		return errors.Newf(errors.CodeInvalidConfig, "files can only seed the mock backend, not %q", c.Backend)
	}
	if c.Root != "" && c.Backend != BackendDisk {
		return errors.Newf(errors.CodeInvalidConfig, "root only applies to the disk backend, not %q", c.Backend)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, errors.CodeInvalidConfig, "invalid log_level %q", c.LogLevel)
	}
	return nil
}
