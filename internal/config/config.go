package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config holds the sieve API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Search   SearchConfig   `yaml:"search"`
	Views    []ViewConfig   `yaml:"views"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`    // debug, info, warn, error (default: determined by env)
	Encoding string `yaml:"encoding"` // json, console (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int        `yaml:"port"`
	ReadTimeoutSec  int        `yaml:"read_timeout_sec"`
	WriteTimeoutSec int        `yaml:"write_timeout_sec"`
	ShutdownSec     int        `yaml:"shutdown_timeout_sec"`
	CORS            CORSConfig `yaml:"cors"`
}

// CORSConfig holds cross-origin settings. No origins disables CORS handling.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAgeSec      int      `yaml:"max_age_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, memory (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	SeedDemo         bool     `yaml:"seed_demo"`
}

// SearchConfig holds query defaults.
type SearchConfig struct {
	DefaultLimit  int `yaml:"default_limit"`
	LoadBatchSize int `yaml:"load_batch_size"`
}

// FieldConfig declares one view field.
type FieldConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // text, tag, numeric, geo
}

// UnitConfig binds a radius parameter to a distance unit.
type UnitConfig struct {
	Param string `yaml:"param"`
	Unit  string `yaml:"unit"` // m, km, mi, ft
}

// ViewConfig declares a searchable view.
// Include and Exclude are told apart from "absent" by nil-ness: an explicit
// empty exclude list makes every field filterable.
type ViewConfig struct {
	Name         string            `yaml:"name"`
	Index        string            `yaml:"index"`
	KeyPrefix    string            `yaml:"key_prefix"`
	Fields       []FieldConfig     `yaml:"fields"`
	Include      []string          `yaml:"include"`
	Exclude      []string          `yaml:"exclude"`
	Aliases      map[string]string `yaml:"aliases"`
	Strategies   []string          `yaml:"strategies"`
	Autocomplete string            `yaml:"autocomplete"`
	Separator    string            `yaml:"separator"`
	OriginParam  string            `yaml:"origin_param"`
	GeoField     string            `yaml:"geo_field"`
	Units        []UnitConfig      `yaml:"units"`
	Limit        int               `yaml:"limit"`
	Fixtures     string            `yaml:"fixtures"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// SIEVE_CONFIG, when set, names the file directly.
func Load(env string) (Config, error) {
	if p := os.Getenv("SIEVE_CONFIG"); p != "" {
		return LoadFile(p)
	}
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	cfg.resolveFixtures(filepath.Dir(configPath))
	return cfg, nil
}

// Parse decodes, defaults and validates YAML configuration.
// ${VAR} and ${VAR:-default} are expanded from the environment first.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.CORS.MaxAgeSec <= 0 {
		c.HTTP.CORS.MaxAgeSec = 300
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverRedis
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 10
	}
	if c.Search.LoadBatchSize <= 0 {
		c.Search.LoadBatchSize = 100
	}
}

// Validate checks the configuration for correctness.
// View semantics (field types, strategies, units) are checked when views are built.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverRedis, DriverMemory, c.Database.Driver)
	}

	seen := make(map[string]bool, len(c.Views))
	for i, v := range c.Views {
		if v.Name == "" {
			return fmt.Errorf("views[%d].name is required", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("views: duplicate name %q", v.Name)
		}
		seen[v.Name] = true
		if v.Include != nil && v.Exclude != nil {
			return fmt.Errorf("views.%s: include and exclude are mutually exclusive", v.Name)
		}
	}
	return nil
}

func (c *Config) resolveFixtures(base string) {
	for i := range c.Views {
		p := c.Views[i].Fixtures
		if p != "" && !filepath.IsAbs(p) {
			c.Views[i].Fixtures = filepath.Join(base, p)
		}
	}
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
