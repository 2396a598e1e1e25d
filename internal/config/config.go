// Package config loads pipeline configuration from an optional TOML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values, matching the pipeline's upstream
// service defaults.
const (
	DefaultHost      = "0.0.0.0"
	DefaultPort      = 8000
	DefaultLLMModel  = "gpt-4o"
	DefaultUserAgent = "productdna/1.0"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Reddit   RedditConfig   `toml:"reddit"`
	LLM      LLMConfig      `toml:"llm"`
	CORS     CORSConfig     `toml:"cors"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	// DataDir holds the database file. Empty means the store's
	// default under the home directory.
	DataDir string `toml:"data_dir"`
}

// RedditConfig configures the content-source connector.
type RedditConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
}

// LLMConfig configures the completion service.
type LLMConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// CORSConfig configures allowed browser origins for the HTTP API.
type CORSConfig struct {
	Origins []string `toml:"origins"`
}

// Load reads configuration from path (optional; a missing file is not
// an error), then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Host: DefaultHost, Port: DefaultPort},
		Reddit: RedditConfig{UserAgent: DefaultUserAgent},
		LLM:    LLMConfig{Model: DefaultLLMModel},
		CORS: CORSConfig{
			Origins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err == nil {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays environment variables on the loaded values.
// GITHUB_TOKEN doubles as the completion API key when no dedicated
// key is set, matching the GitHub Models endpoint default.
func (c *Config) applyEnv() {
	if v := os.Getenv("PRODUCTDNA_ADDR"); v != "" {
		if host, port, ok := splitAddr(v); ok {
			c.Server.Host = host
			c.Server.Port = port
		}
	}
	if v := os.Getenv("PRODUCTDNA_DATA_DIR"); v != "" {
		c.Database.DataDir = v
	}
	if v := os.Getenv("REDDIT_BASE_URL"); v != "" {
		c.Reddit.BaseURL = v
	}
	if v := os.Getenv("REDDIT_USER_AGENT"); v != "" {
		c.Reddit.UserAgent = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("GITHUB_TOKEN")
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		c.CORS.Origins = origins
	}
}

// Addr returns the host:port the HTTP API listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// splitAddr parses "host:port"; the host may be empty.
func splitAddr(addr string) (string, int, bool) {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return "", 0, false
	}
	var port int
	if _, err := fmt.Sscanf(addr[idx+1:], "%d", &port); err != nil {
		return "", 0, false
	}
	host := addr[:idx]
	if host == "" {
		host = DefaultHost
	}
	return host, port, true
}
