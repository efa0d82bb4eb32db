package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
	Reorder ReorderConfig `yaml:"reorder"`
	MCP     MCPConfig     `yaml:"mcp"`
	Auth    AuthConfig    `yaml:"auth"`
}

type APIConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type ReorderConfig struct {
	MaxConcurrency int  `yaml:"max_concurrency"`
	FullRecord     bool `yaml:"full_record"`
}

type MCPConfig struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Token string `yaml:"token"`
}

type AuthConfig struct {
	CredentialsDir string `yaml:"credentials_dir"`
}

// Options controls where Load looks for configuration.
type Options struct {
	// Path overrides FOLIO_CONFIG_PATH.
	Path string
	// EnvFile is the dotenv file to read; empty means ".env".
	EnvFile string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	dir := ".folio"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".folio")
	}
	return Config{
		API: APIConfig{
			URL:     "http://localhost:3000",
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Path: filepath.Join(dir, "cache.db"),
		},
		Log: LogConfig{
			Level: "info",
		},
		MCP: MCPConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Auth: AuthConfig{
			CredentialsDir: dir,
		},
	}
}

// Load reads configuration from defaults, an optional YAML file, a dotenv
// file and environment variables, in increasing precedence. Variables set in
// the real environment are never overridden by the dotenv file.
func Load(opts Options) (Config, error) {
	cfg := Default()

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	path := opts.Path
	if path == "" {
		path = os.Getenv("FOLIO_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("FOLIO_API_URL"); v != "" {
		cfg.API.URL = v
	}
	if v := os.Getenv("FOLIO_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FOLIO_API_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = d
	}
	if v := os.Getenv("FOLIO_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("FOLIO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FOLIO_LOG_PATH"); v != "" {
		cfg.Log.Path = v
	}
	if v := os.Getenv("FOLIO_REORDER_MAX_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid FOLIO_REORDER_MAX_CONCURRENCY: %w", err)
		}
		if n < 0 {
			return fmt.Errorf("invalid FOLIO_REORDER_MAX_CONCURRENCY: %d is negative", n)
		}
		cfg.Reorder.MaxConcurrency = n
	}
	if v := os.Getenv("FOLIO_REORDER_FULL_RECORD"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid FOLIO_REORDER_FULL_RECORD: %w", err)
		}
		cfg.Reorder.FullRecord = b
	}
	if v := os.Getenv("FOLIO_MCP_HOST"); v != "" {
		cfg.MCP.Host = v
	}
	if v := os.Getenv("FOLIO_MCP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid FOLIO_MCP_PORT: %w", err)
		}
		cfg.MCP.Port = port
	}
	if v := os.Getenv("FOLIO_MCP_TOKEN"); v != "" {
		cfg.MCP.Token = v
	}
	if v := os.Getenv("FOLIO_CREDENTIALS_DIR"); v != "" {
		cfg.Auth.CredentialsDir = v
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Addr is the listen address of the MCP HTTP transport.
func (c MCPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
