package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/formkit/internal/errors"
	"github.com/vango-dev/formkit/pkg/form"
	"github.com/vango-dev/formkit/pkg/formctx"
)

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "formkit.json"

// YAMLConfigFileName is checked when ConfigFileName is absent.
const YAMLConfigFileName = "formkit.yaml"

// Default values for configuration.
const (
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = "10s"
	DefaultWriteTimeout = "10s"
	DefaultNamespace    = "formkit"
	DefaultTracerName   = "formkit"
)

// Config represents the formkit configuration file.
type Config struct {
	// Server configures the HTTP and websocket server.
	Server ServerConfig `json:"server" yaml:"server"`

	// Form holds the defaults applied to every served form.
	Form FormConfig `json:"form" yaml:"form"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// Definition is the path of the form definition served by default,
	// relative to the configuration file.
	Definition string `json:"definition,omitempty" yaml:"definition,omitempty"`

	configPath string
}

// ServerConfig configures the server.
type ServerConfig struct {
	Addr         string `json:"addr,omitempty" yaml:"addr,omitempty"`
	ReadTimeout  string `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	WriteTimeout string `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`

	// AllowedOrigins limits websocket upgrades. Empty allows same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

// FormConfig holds form defaults.
type FormConfig struct {
	ClassPrefix string          `json:"classPrefix,omitempty" yaml:"classPrefix,omitempty"`
	StrictNames bool            `json:"strictNames,omitempty" yaml:"strictNames,omitempty"`
	Options     formctx.Options `json:"options" yaml:"options"`
}

// MetricsConfig configures metrics.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
}

// TracingConfig configures tracing.
type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// New returns a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         DefaultAddr,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
		},
		Form: FormConfig{
			ClassPrefix: form.DefaultClassPrefix,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
			Path:      "/metrics",
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for formkit.json, then formkit.yaml.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if _, yerr := os.Stat(filepath.Join(dir, YAMLConfigFileName)); yerr == nil {
			path = filepath.Join(dir, YAMLConfigFileName)
		}
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("F010").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or pass --config")
		}
		return nil, errors.New("F010").Wrap(err)
	}

	cfg := New()
	if err := decode(path, data, cfg); err != nil {
		return nil, errors.New("F010").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, in the format
// its extension selects.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("F010").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("F010").Wrap(err)
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

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}

	if c.Form.ClassPrefix == "" {
		c.Form.ClassPrefix = form.DefaultClassPrefix
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := parseDuration("server.readTimeout", c.Server.ReadTimeout); err != nil {
		return err
	}
	if _, err := parseDuration("server.writeTimeout", c.Server.WriteTimeout); err != nil {
		return err
	}
	if err := c.Form.Options.Validate(); err != nil {
		return errors.New("F011").WithDetail("form.options").Wrap(err)
	}
	if strings.ContainsAny(c.Form.ClassPrefix, " .#") {
		return errors.New("F011").
			WithDetail("form.classPrefix must be a plain CSS identifier, got " + `"` + c.Form.ClassPrefix + `"`)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("F011").WithDetail("metrics.path must start with /")
	}
	return nil
}

// ReadTimeout returns the parsed server read timeout.
func (c *Config) ReadTimeout() time.Duration {
	d, _ := parseDuration("", c.Server.ReadTimeout)
	return d
}

// WriteTimeout returns the parsed server write timeout.
func (c *Config) WriteTimeout() time.Duration {
	d, _ := parseDuration("", c.Server.WriteTimeout)
	return d
}

// FormOptions returns the form options the configuration selects.
func (c *Config) FormOptions() []form.Option {
	opts := []form.Option{form.WithClassPrefix(c.Form.ClassPrefix)}
	if c.Form.StrictNames {
		opts = append(opts, form.WithStrictNames())
	}
	return opts
}

// DefinitionPath returns the absolute path of the default definition, or
// "" when none is configured.
func (c *Config) DefinitionPath() string {
	if c.Definition == "" {
		return ""
	}
	if filepath.IsAbs(c.Definition) {
		return c.Definition
	}
	return filepath.Join(c.Dir(), c.Definition)
}

func parseDuration(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.New("F011").WithDetail(key + " is not a duration").Wrap(err)
	}
	if d < 0 {
		return 0, errors.New("F011").WithDetail(key + " must not be negative")
	}
	return d, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func decode(path string, data []byte, v any) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}
