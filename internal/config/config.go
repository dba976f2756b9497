// Package config loads and validates graphweave's runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/amancerp/graphweave/internal/backend"
)

// Config is graphweave's complete runtime configuration.
type Config struct {
	Version     int               `yaml:"version" json:"version"`
	Backend     BackendConfig     `yaml:"backend" json:"backend"`
	Embeddings  EmbeddingsConfig  `yaml:"embeddings" json:"embeddings"`
	Retrieval   RetrievalConfig   `yaml:"retrieval" json:"retrieval"`
	Performance PerformanceConfig `yaml:"performance" json:"performance"`
	Server      ServerConfig      `yaml:"server" json:"server"`
}

// BackendConfig configures the backend session: where the database
// lives and how its schema is brought up.
type BackendConfig struct {
	// Path is the SQLite database path, or ":memory:" for an
	// ephemeral in-process store.
	Path string `yaml:"path" json:"path"`
	// SetupMode is "sync" (apply schema immediately) or "off" (assume
	// the schema already exists). Any other value is rejected.
	SetupMode string `yaml:"setup_mode" json:"setup_mode"`
}

// EmbeddingsConfig selects and configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider is "static" or "ollama". Empty selects the static
	// provider; no service is probed.
	Provider string `yaml:"provider" json:"provider"`
	Model    string `yaml:"model" json:"model"`
	// Dimensions is the embedding vector width the ollama provider
	// reports and checks its responses against. The static provider
	// ignores it and always produces embedding.StaticDimensions.
	Dimensions int `yaml:"dimensions" json:"dimensions"`
	// OllamaHost is the Ollama API endpoint.
	OllamaHost string `yaml:"ollama_host" json:"ollama_host"`
	// CacheSize is the number of embeddings the LRU cache holds.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// RetrievalConfig holds the default parameters for traversal and
// MMR-traversal searches, overridable per request.
type RetrievalConfig struct {
	K              int     `yaml:"k" json:"k"`
	Depth          int     `yaml:"depth" json:"depth"`
	FetchK         int     `yaml:"fetch_k" json:"fetch_k"`
	AdjacentK      int     `yaml:"adjacent_k" json:"adjacent_k"`
	LambdaMult     float64 `yaml:"lambda_mult" json:"lambda_mult"`
	ScoreThreshold float64 `yaml:"score_threshold" json:"score_threshold"`
}

// PerformanceConfig tunes the concurrent query runner.
type PerformanceConfig struct {
	// MaxInFlight bounds concurrently in-flight backend queries within
	// a single scope. Defaults to runtime.NumCPU().
	MaxInFlight int `yaml:"max_in_flight" json:"max_in_flight"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	// Transport is "stdio" or "sse". Validate accepts both, but the
	// MCP server only serves stdio and returns an error for "sse".
	Transport string `yaml:"transport" json:"transport"`
	Port      int    `yaml:"port" json:"port"`
	LogLevel  string `yaml:"log_level" json:"log_level"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Backend: BackendConfig{
			Path:      defaultBackendPath(),
			SetupMode: "sync",
		},
		Embeddings: EmbeddingsConfig{
			Provider:   "",
			Model:      "nomic-embed-text",
			Dimensions: 768,
			OllamaHost: "http://localhost:11434",
			CacheSize:  1000,
		},
		Retrieval: RetrievalConfig{
			K:              4,
			Depth:          2,
			FetchK:         100,
			AdjacentK:      10,
			LambdaMult:     0.5,
			ScoreThreshold: 0, // 0 means "no threshold": graphstore.MMRTraversalSearch treats 0 as -Inf.
		},
		Performance: PerformanceConfig{
			MaxInFlight: runtime.NumCPU(),
		},
		Server: ServerConfig{
			Transport: "stdio",
			Port:      8765,
			LogLevel:  "info",
		},
	}
}

func defaultBackendPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".graphweave", "graph.db")
	}
	return filepath.Join(home, ".graphweave", "graph.db")
}

// Load builds a Config from defaults, a YAML file in dir (if present),
// and GRAPHWEAVE_* environment overrides, in increasing precedence.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFromFile(dir string) error {
	for _, name := range []string{".graphweave.yaml", ".graphweave.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return c.loadYAML(path)
		}
	}
	return nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	c.mergeWith(&parsed)
	return nil
}

// mergeWith overlays non-zero fields of other onto c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Backend.Path != "" {
		c.Backend.Path = other.Backend.Path
	}
	if other.Backend.SetupMode != "" {
		c.Backend.SetupMode = other.Backend.SetupMode
	}

	if other.Embeddings.Provider != "" {
		c.Embeddings.Provider = other.Embeddings.Provider
	}
	if other.Embeddings.Model != "" {
		c.Embeddings.Model = other.Embeddings.Model
	}
	if other.Embeddings.Dimensions != 0 {
		c.Embeddings.Dimensions = other.Embeddings.Dimensions
	}
	if other.Embeddings.OllamaHost != "" {
		c.Embeddings.OllamaHost = other.Embeddings.OllamaHost
	}
	if other.Embeddings.CacheSize != 0 {
		c.Embeddings.CacheSize = other.Embeddings.CacheSize
	}

	if other.Retrieval.K != 0 {
		c.Retrieval.K = other.Retrieval.K
	}
	if other.Retrieval.Depth != 0 {
		c.Retrieval.Depth = other.Retrieval.Depth
	}
	if other.Retrieval.FetchK != 0 {
		c.Retrieval.FetchK = other.Retrieval.FetchK
	}
	if other.Retrieval.AdjacentK != 0 {
		c.Retrieval.AdjacentK = other.Retrieval.AdjacentK
	}
	if other.Retrieval.LambdaMult != 0 {
		c.Retrieval.LambdaMult = other.Retrieval.LambdaMult
	}
	if other.Retrieval.ScoreThreshold != 0 {
		c.Retrieval.ScoreThreshold = other.Retrieval.ScoreThreshold
	}

	if other.Performance.MaxInFlight != 0 {
		c.Performance.MaxInFlight = other.Performance.MaxInFlight
	}

	if other.Server.Transport != "" {
		c.Server.Transport = other.Server.Transport
	}
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}
}

// applyEnvOverrides applies GRAPHWEAVE_* environment variable overrides,
// which take precedence over both defaults and the YAML file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GRAPHWEAVE_BACKEND_PATH"); v != "" {
		c.Backend.Path = v
	}
	if v := os.Getenv("GRAPHWEAVE_SETUP_MODE"); v != "" {
		c.Backend.SetupMode = v
	}
	if v := os.Getenv("GRAPHWEAVE_EMBEDDINGS_PROVIDER"); v != "" {
		c.Embeddings.Provider = v
	}
	if v := os.Getenv("GRAPHWEAVE_EMBEDDINGS_MODEL"); v != "" {
		c.Embeddings.Model = v
	}
	if v := os.Getenv("GRAPHWEAVE_OLLAMA_HOST"); v != "" {
		c.Embeddings.OllamaHost = v
	}
	if v := os.Getenv("GRAPHWEAVE_DIMENSIONS"); v != "" {
		if d, err := strconv.Atoi(v); err == nil && d > 0 {
			c.Embeddings.Dimensions = d
		}
	}
	if v := os.Getenv("GRAPHWEAVE_MAX_IN_FLIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Performance.MaxInFlight = n
		}
	}
	if v := os.Getenv("GRAPHWEAVE_TRANSPORT"); v != "" {
		c.Server.Transport = v
	}
	if v := os.Getenv("GRAPHWEAVE_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
}

// Validate checks the configuration for internally-consistent values.
func (c *Config) Validate() error {
	if c.Embeddings.Dimensions < 0 {
		return fmt.Errorf("embeddings.dimensions must be non-negative, got %d", c.Embeddings.Dimensions)
	}
	if c.Embeddings.Provider != "" {
		valid := map[string]bool{"static": true, "ollama": true}
		if !valid[strings.ToLower(c.Embeddings.Provider)] {
			return fmt.Errorf("embeddings.provider must be 'static', 'ollama', or empty (static), got %s", c.Embeddings.Provider)
		}
	}
	if c.Retrieval.LambdaMult < 0 || c.Retrieval.LambdaMult > 1 {
		return fmt.Errorf("retrieval.lambda_mult must be between 0 and 1, got %f", c.Retrieval.LambdaMult)
	}
	if c.Performance.MaxInFlight <= 0 {
		return fmt.Errorf("performance.max_in_flight must be positive, got %d", c.Performance.MaxInFlight)
	}

	validTransports := map[string]bool{"stdio": true, "sse": true}
	if !validTransports[strings.ToLower(c.Server.Transport)] {
		return fmt.Errorf("server.transport must be 'stdio' or 'sse', got %s", c.Server.Transport)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}

	return nil
}

// SetupMode maps the configured string onto backend.SetupMode,
// rejecting anything the backend itself would reject.
func (c *Config) SetupMode() (backend.SetupMode, error) {
	switch strings.ToLower(c.Backend.SetupMode) {
	case "sync":
		return backend.SetupSync, nil
	case "off":
		return backend.SetupOff, nil
	default:
		return 0, fmt.Errorf("backend.setup_mode must be 'sync' or 'off', got %q", c.Backend.SetupMode)
	}
}

// FindProjectRoot walks up from startDir looking for a .git directory
// or a .graphweave.yaml/.yml file, returning the first directory that
// has one. If neither is found before reaching the filesystem root,
// it returns startDir's absolute path unchanged.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("absolute path for %s: %w", startDir, err)
	}

	dir := absDir
	for {
		if dirExists(filepath.Join(dir, ".git")) {
			return dir, nil
		}
		if fileExists(filepath.Join(dir, ".graphweave.yaml")) || fileExists(filepath.Join(dir, ".graphweave.yml")) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return absDir, nil
		}
		dir = parent
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteYAML writes the configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
