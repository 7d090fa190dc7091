package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Sentinel errors for the config package.
var (
	// ErrInvalidFile is returned when a profile file cannot be read or parsed.
	ErrInvalidFile = errors.New("config: invalid profile file")

	// ErrUnknownProfile is returned when a requested profile is not defined.
	ErrUnknownProfile = errors.New("config: unknown profile")

	// ErrUnknownDriver is returned for unrecognized driver names.
	ErrUnknownDriver = errors.New("config: unknown driver")
)

// Duration wraps time.Duration with YAML support for strings like "24h".
// yaml.v3 only decodes integers (nanoseconds) into time.Duration directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("%w: bad duration %q", ErrInvalidFile, node.Value)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Driver names accepted in profiles.
const (
	DriverS3       = "s3"
	DriverDisk     = "disk"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Profile declares one named storage backend. Drivers use disjoint subsets
// of the fields; unused fields are simply left empty in YAML.
type Profile struct {
	Driver string `yaml:"driver"`

	// S3 settings.
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	Region    string `yaml:"region,omitempty"`
	PublicURL string `yaml:"public_url,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`

	// Disk settings.
	Root string `yaml:"root,omitempty"`

	// Redis settings.
	URL       string   `yaml:"url,omitempty"`
	Namespace string   `yaml:"namespace,omitempty"`
	TTL       Duration `yaml:"ttl,omitempty"`

	// Postgres settings.
	ConnectionString string `yaml:"connection_string,omitempty"`

	// Shared settings.
	KeyPrefix string `yaml:"key_prefix,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
}

// File is the top-level structure of a profile file.
type File struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// validate checks that every profile names a known driver.
func (f *File) validate() error {
	for name, p := range f.Profiles {
		switch p.Driver {
		case DriverS3, DriverDisk, DriverMemory, DriverRedis, DriverPostgres:
		default:
			return fmt.Errorf("%w: %q in profile %q", ErrUnknownDriver, p.Driver, name)
		}
	}
	return nil
}

// Load reads storage profiles from a YAML file on disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return parse(data)
}

// LoadFS reads storage profiles from a YAML file in an fs.FS, so profile
// files can ship embedded in the binary.
func LoadFS(fsys fs.FS, path string) (*File, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return parse(data)
}

func parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Profile returns the named profile.
func (f *File) Profile(name string) (Profile, error) {
	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// FromEnv parses a config struct from environment variables using its env
// tags. Every Config struct in this module carries env tags, so backends can
// be configured either from profiles or from the environment.
func FromEnv[T any]() (T, error) {
	return env.ParseAs[T]()
}
