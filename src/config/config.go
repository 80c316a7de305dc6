package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level scrubber configuration loaded from JSON or YAML.
type Config struct {
	InputDir   string           `json:"inputDir" yaml:"inputDir"`
	OutputDir  string           `json:"outputDir" yaml:"outputDir"`
	APIMapFile string           `json:"apiMapFile" yaml:"apiMapFile"`
	Documents  []DocumentConfig `json:"documents,omitempty" yaml:"documents,omitempty"`
	Ignore     []string         `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Serve      ServeConfig      `json:"serve" yaml:"serve"`
}

// DocumentConfig declares the role of one captured input file.
type DocumentConfig struct {
	Input    string `json:"input" yaml:"input"`
	Output   string `json:"output" yaml:"output"`
	Strategy string `json:"strategy" yaml:"strategy"` // master, relational, blind, passthrough or ignored
}

// StoreConfig selects where fixtures are written.
type StoreConfig struct {
	Driver string   `json:"driver" yaml:"driver"` // "fs", "memory" or "s3"
	S3     S3Config `json:"s3" yaml:"s3"`
}

// S3Config holds settings for the s3 store driver.
type S3Config struct {
	Bucket          string `json:"bucket" yaml:"bucket"`
	Prefix          string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region          string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"` // e.g. MinIO
	PathStyle       bool   `json:"pathStyle,omitempty" yaml:"pathStyle,omitempty"`
	AccessKeyID     string `json:"accessKeyId,omitempty" yaml:"accessKeyId,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty" yaml:"secretAccessKey,omitempty"`
}

// ServeConfig controls the inspection tool server.
type ServeConfig struct {
	Transport string     `json:"transport" yaml:"transport"` // "stdio" or "http"
	HTTP      HTTPConfig `json:"http" yaml:"http"`
}

// HTTPConfig holds HTTP listener settings.
type HTTPConfig struct {
	Addr string `json:"addr" yaml:"addr"` // e.g. ":8080"
	Path string `json:"path" yaml:"path"` // e.g. "/mcp"
	// FixturesPath is the prefix generated fixtures are served under,
	// read-only. It must start and end with "/".
	FixturesPath string `json:"fixturesPath" yaml:"fixturesPath"`
}

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	DriverFilesystem = "fs"
	DriverMemory     = "memory"
	DriverS3         = "s3"

	DefaultInputDir   = "reference_data"
	DefaultOutputDir  = "src/mocks/data"
	DefaultAPIMapFile = "src/mocks/api_map.json"
	DefaultHTTPAddr   = ":8080"
	DefaultHTTPPath   = "/mcp"
	DefaultFixtures   = "/fixtures/"
)

var strategies = map[string]bool{
	"master":      true,
	"relational":  true,
	"blind":       true,
	"passthrough": true,
	"ignored":     true,
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// Load reads and parses a config file, applies defaults, and validates.
// Files ending in .yaml or .yml are parsed as YAML, anything else as JSON.
// Documents listed in the file are merged over the built-in role table.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.InputDir == "" {
		cfg.InputDir = DefaultInputDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.APIMapFile == "" {
		cfg.APIMapFile = DefaultAPIMapFile
	}
	cfg.Documents = MergeDocuments(DefaultDocuments(), cfg.Documents)
	if cfg.Ignore == nil {
		cfg.Ignore = DefaultIgnore()
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DriverFilesystem
	}
	if cfg.Serve.Transport == "" {
		cfg.Serve.Transport = TransportStdio
	}
	if cfg.Serve.HTTP.Addr == "" {
		cfg.Serve.HTTP.Addr = DefaultHTTPAddr
	}
	if cfg.Serve.HTTP.Path == "" {
		cfg.Serve.HTTP.Path = DefaultHTTPPath
	}
	if cfg.Serve.HTTP.FixturesPath == "" {
		cfg.Serve.HTTP.FixturesPath = DefaultFixtures
	}
}

func validate(cfg Config) error {
	if cfg.Serve.Transport != TransportStdio && cfg.Serve.Transport != TransportHTTP {
		return fmt.Errorf("serve transport must be %q or %q, got %q",
			TransportStdio, TransportHTTP, cfg.Serve.Transport)
	}
	if fp := cfg.Serve.HTTP.FixturesPath; !strings.HasPrefix(fp, "/") || !strings.HasSuffix(fp, "/") {
		return fmt.Errorf("serve.http.fixturesPath must start and end with \"/\", got %q", fp)
	}
	if strings.HasPrefix(cfg.Serve.HTTP.Path, cfg.Serve.HTTP.FixturesPath) {
		return fmt.Errorf("serve.http.path %q must not be under fixturesPath %q",
			cfg.Serve.HTTP.Path, cfg.Serve.HTTP.FixturesPath)
	}

	switch cfg.Store.Driver {
	case DriverFilesystem, DriverMemory:
	case DriverS3:
		if cfg.Store.S3.Bucket == "" {
			return fmt.Errorf("store.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("store driver must be %q, %q or %q, got %q",
			DriverFilesystem, DriverMemory, DriverS3, cfg.Store.Driver)
	}

	return validateDocuments(cfg.Documents)
}

func validateDocuments(docs []DocumentConfig) error {
	inputs := make(map[string]struct{}, len(docs))
	outputs := make(map[string]struct{}, len(docs))
	masters := 0

	for i, d := range docs {
		if d.Input == "" {
			return fmt.Errorf("documents[%d]: input is required", i)
		}
		if strings.ContainsAny(d.Input, `/\`) {
			return fmt.Errorf("documents[%d]: input %q must be a bare file name", i, d.Input)
		}
		if _, exists := inputs[d.Input]; exists {
			return fmt.Errorf("documents[%d]: duplicate input %q", i, d.Input)
		}
		inputs[d.Input] = struct{}{}

		if d.Output == "" {
			return fmt.Errorf("documents[%d] (%s): output is required", i, d.Input)
		}
		if _, exists := outputs[d.Output]; exists {
			return fmt.Errorf("documents[%d] (%s): duplicate output %q", i, d.Input, d.Output)
		}
		outputs[d.Output] = struct{}{}

		strategy := strings.ToLower(d.Strategy)
		if !strategies[strategy] {
			return fmt.Errorf("documents[%d] (%s): unknown strategy %q", i, d.Input, d.Strategy)
		}
		if strategy == "master" {
			masters++
		}
	}

	if masters != 1 {
		return fmt.Errorf("exactly one master document is required, got %d", masters)
	}
	return nil
}

// MergeDocuments returns base with overrides applied. An override whose input
// matches a base entry replaces it in place; other overrides are appended in
// their given order. Empty override fields keep the base value.
func MergeDocuments(base, overrides []DocumentConfig) []DocumentConfig {
	merged := make([]DocumentConfig, len(base))
	copy(merged, base)

	index := make(map[string]int, len(merged))
	for i, d := range merged {
		index[d.Input] = i
	}

	for _, o := range overrides {
		i, exists := index[o.Input]
		if !exists {
			index[o.Input] = len(merged)
			merged = append(merged, o)
			continue
		}
		if o.Output != "" {
			merged[i].Output = o.Output
		}
		if o.Strategy != "" {
			merged[i].Strategy = o.Strategy
		}
	}

	return merged
}

// Master returns the master document entry. validate guarantees there is
// exactly one.
func (c Config) Master() (DocumentConfig, bool) {
	for _, d := range c.Documents {
		if strings.EqualFold(d.Strategy, "master") {
			return d, true
		}
	}
	return DocumentConfig{}, false
}

// Document returns the entry declared for input.
func (c Config) Document(input string) (DocumentConfig, bool) {
	for _, d := range c.Documents {
		if d.Input == input {
			return d, true
		}
	}
	return DocumentConfig{}, false
}

// Ignored reports whether name is listed as a known file that is never
// processed.
func (c Config) Ignored(name string) bool {
	for _, n := range c.Ignore {
		if n == name {
			return true
		}
	}
	return false
}
