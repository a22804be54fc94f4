package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dashtmpl/dashtmpl/internal/errors"
	"github.com/dashtmpl/dashtmpl/internal/validation"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "dashtmpl.yaml"

	// EnvConfig names an environment variable holding the path of the
	// config file. It takes precedence over the directory search.
	EnvConfig = "DASHTMPL_CONFIG"

	// DefaultPort is the default preview server port.
	DefaultPort = 8050

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultTemplatesDir is the default templates directory.
	DefaultTemplatesDir = "templates"

	// DefaultLayout is the default layout template.
	DefaultLayout = "layout.html"
)

// Config represents a dashtmpl.yaml file.
type Config struct {
	// Name is the app name shown in the preview page title.
	Name string `yaml:"name,omitempty"`

	// Layout is the template rendered as the app layout by serve.
	Layout string `yaml:"layout" validate:"required"`

	// Context is an optional YAML file with the data the layout is
	// rendered with.
	Context string `yaml:"context,omitempty"`

	// Templates configures the local template directory.
	Templates TemplatesConfig `yaml:"templates"`

	// S3 loads templates from a bucket instead of Templates.Dir.
	S3 *S3Config `yaml:"s3,omitempty"`

	// Server configures the preview server.
	Server ServerConfig `yaml:"server"`

	// Aliases replaces the namespace alias table used to decode
	// serialized components.
	Aliases map[string]string `yaml:"aliases,omitempty"`

	// Stylesheets are linked from the preview page.
	Stylesheets []string `yaml:"stylesheets,omitempty"`

	// Log configures logging.
	Log LogConfig `yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// TemplatesConfig configures where templates are read from.
type TemplatesConfig struct {
	// Dir is the templates directory, relative to the config file.
	Dir string `yaml:"dir" validate:"required"`

	// Partials is a glob of templates parsed into every template.
	Partials string `yaml:"partials,omitempty"`
}

// S3Config configures the S3 template loader.
type S3Config struct {
	Bucket string `yaml:"bucket" validate:"required"`
	Prefix string `yaml:"prefix,omitempty"`
	Region string `yaml:"region" validate:"required"`

	// Endpoint overrides the S3 endpoint (MinIO, localstack).
	Endpoint string `yaml:"endpoint,omitempty" validate:"omitempty,url"`
}

// ServerConfig contains preview server settings.
type ServerConfig struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"min=0,max=65535"`

	// Watch re-renders the layout when templates change.
	Watch bool `yaml:"watch"`

	// Ignore contains patterns to ignore while watching.
	Ignore []string `yaml:"ignore,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Layout: DefaultLayout,
		Templates: TemplatesConfig{
			Dir: DefaultTemplatesDir,
		},
		Server: ServerConfig{
			Host:  DefaultHost,
			Port:  DefaultPort,
			Watch: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads dashtmpl.yaml from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads and validates the config file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.New(errors.CodeConfigRead).
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Create " + ConfigFileName + " or pass --config")
		}
		return nil, errors.New(errors.CodeConfigRead).Wrap(err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid YAML").
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New(errors.CodeConfigRead).Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(errors.CodeConfigRead).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for fields a file left empty.
func (c *Config) applyDefaults() {
	if c.Layout == "" {
		c.Layout = DefaultLayout
	}
	if c.Templates.Dir == "" {
		c.Templates.Dir = DefaultTemplatesDir
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Name == "" && c.configPath != "" {
		c.Name = filepath.Base(c.Dir())
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	err := validation.Struct(c)
	if err == nil {
		return nil
	}
	e := errors.New(errors.CodeConfigValidation).WithDetail(err.Error())
	if c.configPath != "" {
		e = e.WithLocation(c.configPath, 0, 0)
	}
	return e.Wrap(err)
}

// Address returns the preview server listen address.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// URL returns the preview server URL.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// TemplatesPath returns the absolute path to the templates directory.
func (c *Config) TemplatesPath() string {
	return c.resolve(c.Templates.Dir)
}

// ContextPath returns the absolute path to the context file, or "".
func (c *Config) ContextPath() string {
	if c.Context == "" {
		return ""
	}
	return c.resolve(c.Context)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up from startDir to the directory containing
// dashtmpl.yaml.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigRead).
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Create " + ConfigFileName + " at the project root")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the file named by DASHTMPL_CONFIG, or else the
// nearest dashtmpl.yaml at or above the working directory.
func LoadFromWorkingDir() (*Config, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return LoadFile(path)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	return Load(root)
}
