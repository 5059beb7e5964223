package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API     APIConfig     `toml:"api"`
	Server  ServerConfig  `toml:"server"`
	Codes   CodesConfig   `toml:"codes"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// APIConfig identifies the service.
type APIConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	ClientToken string   `toml:"client_token"`
	RateLimit   float64  `toml:"rate_limit"`
}

// CodesConfig contains join-code generation settings.
type CodesConfig struct {
	Length      int    `toml:"length"`
	Alphabet    string `toml:"alphabet"`
	MaxGenerate int    `toml:"max_generate"`
}

// YouTubeConfig contains YouTube Music proxy settings.
type YouTubeConfig struct {
	HeadersPath string `toml:"headers_path"`
	BaseURL     string `toml:"base_url"`
	PoolSize    int    `toml:"pool_size"`
}

// Addr returns the host:port address the HTTP server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Environment overrides (APP_ prefix) are applied after parsing.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.ApplyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config,
// with environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.ApplyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides config values from APP_-prefixed environment variables.
//
// Supported: APP_API_NAME, APP_API_VERSION, APP_HOST, APP_PORT, APP_CORS_ORIGINS
// (comma-separated), APP_CLIENT_TOKEN, APP_RATE_LIMIT, APP_CODE_LENGTH,
// APP_CODE_ALPHABET, APP_MAX_GENERATE, APP_HEADERS_PATH, APP_YTM_BASE_URL,
// APP_POOL_SIZE.
func (c *Config) ApplyEnv() {
	setString(&c.API.Name, "APP_API_NAME")
	setString(&c.API.Version, "APP_API_VERSION")
	setString(&c.Server.Host, "APP_HOST")
	setInt(&c.Server.Port, "APP_PORT")
	setString(&c.Server.ClientToken, "APP_CLIENT_TOKEN")
	setFloat(&c.Server.RateLimit, "APP_RATE_LIMIT")
	setInt(&c.Codes.Length, "APP_CODE_LENGTH")
	setString(&c.Codes.Alphabet, "APP_CODE_ALPHABET")
	setInt(&c.Codes.MaxGenerate, "APP_MAX_GENERATE")
	setString(&c.YouTube.HeadersPath, "APP_HEADERS_PATH")
	setString(&c.YouTube.BaseURL, "APP_YTM_BASE_URL")
	setInt(&c.YouTube.PoolSize, "APP_POOL_SIZE")

	if v := os.Getenv("APP_CORS_ORIGINS"); v != "" {
		origins := []string{}
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSOrigins = origins
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
