package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".placescout"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Duration wraps time.Duration so YAML values like "2s" decode naturally.
type Duration time.Duration

// UnmarshalYAML decodes a duration string ("2s", "500ms").
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// File mirrors the YAML configuration file.
// Every field is optional; zero values leave the corresponding Config
// default untouched.
type File struct {
	// Specialty is the default category term.
	Specialty string `yaml:"specialty"`

	// Places is the default location list used when --places is absent.
	Places []string `yaml:"places"`

	// Output is the default combined CSV path.
	Output string `yaml:"output"`

	// MaxResults is the default per-location cap. 0 means unlimited.
	MaxResults int `yaml:"max_results"`

	// PageDelay overrides the wait before a continuation page.
	PageDelay Duration `yaml:"page_delay"`

	// LocationDelay overrides the pause between locations.
	LocationDelay Duration `yaml:"location_delay"`

	// Timeout overrides the per-request transport timeout.
	Timeout Duration `yaml:"timeout"`
}

// LoadConfigFile loads defaults from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers decide
// whether that is fatal based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	return &f, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .placescout in the current directory
// 3. Look for .placescout in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// ApplyFile folds file-level defaults into the config.
// Only fields the file actually sets are applied, so flag values and
// built-in defaults survive an empty file.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	if c.Specialty == "" && f.Specialty != "" {
		c.Specialty = f.Specialty
	}
	if len(c.Places) == 0 && len(f.Places) > 0 {
		c.Places = append([]string(nil), f.Places...)
	}
	if c.OutputFile == "" && f.Output != "" {
		c.OutputFile = f.Output
	}
	if c.MaxResults == DefaultMaxResults && f.MaxResults > 0 {
		c.MaxResults = f.MaxResults
	}
	if f.PageDelay > 0 {
		c.PageDelay = time.Duration(f.PageDelay)
	}
	if f.LocationDelay > 0 {
		c.LocationDelay = time.Duration(f.LocationDelay)
	}
	if f.Timeout > 0 {
		c.Timeout = time.Duration(f.Timeout)
	}
}

// LoadAPIKey reads the API key from the environment, consulting a .env
// file in the working directory first, the same way the original tooling
// around this API does.
//
// A missing key is not an error here: the caller warns and continues, and
// requests fail visibly at call time instead.
func LoadAPIKey() string {
	// Best effort; a missing .env file is the common case.
	_ = godotenv.Load()
	return os.Getenv(EnvAPIKey)
}
