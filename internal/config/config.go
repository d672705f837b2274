package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Temporal  TemporalConfig  `yaml:"temporal"`

	// Path is the YAML file the config was loaded from, if any.
	Path string `yaml:"-"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TemporalConfig is the connection to the Temporal frontend.
type TemporalConfig struct {
	Address     string `yaml:"address"`
	Namespace   string `yaml:"namespace"`
	APIKey      string `yaml:"api_key"`
	TLSCertPath string `yaml:"tls_cert_path"`
	TLSKeyPath  string `yaml:"tls_key_path"`
}

// AuthType reports which credential the connection uses.
func (t TemporalConfig) AuthType() string {
	switch {
	case t.APIKey != "":
		return "api_key"
	case t.TLSCertPath != "":
		return "mtls"
	default:
		return "none"
	}
}

const (
	DefaultTemporalAddress   = "localhost:7233"
	DefaultTemporalNamespace = "default"
)

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "xray.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Temporal: TemporalConfig{
			Address:   DefaultTemporalAddress,
			Namespace: DefaultTemporalNamespace,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("XRAY_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
		cfg.Path = path
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Transport.Mode != "stdio" && cfg.Transport.Mode != "http" {
		return Config{}, fmt.Errorf("invalid transport mode %q: want stdio or http", cfg.Transport.Mode)
	}

	return cfg, nil
}

// LoadTemporal re-reads the temporal block of the file at path, with the
// TEMPORAL_* environment applied on top.
func LoadTemporal(path string) (TemporalConfig, error) {
	cfg := Default()
	if err := loadFromFile(path, &cfg); err != nil {
		return TemporalConfig{}, err
	}
	applyTemporalEnv(&cfg.Temporal)
	return cfg.Temporal, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("XRAY_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("XRAY_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid XRAY_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("XRAY_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("XRAY_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("XRAY_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if enabled := os.Getenv("XRAY_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid XRAY_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	applyTemporalEnv(&cfg.Temporal)
	return nil
}

func applyTemporalEnv(t *TemporalConfig) {
	if v := os.Getenv("TEMPORAL_ADDRESS"); v != "" {
		t.Address = v
	}
	if v := os.Getenv("TEMPORAL_NAMESPACE"); v != "" {
		t.Namespace = v
	}
	if v := os.Getenv("TEMPORAL_API_KEY"); v != "" {
		t.APIKey = v
	}
	if v := os.Getenv("TEMPORAL_TLS_CERT_PATH"); v != "" {
		t.TLSCertPath = v
	}
	if v := os.Getenv("TEMPORAL_TLS_KEY_PATH"); v != "" {
		t.TLSKeyPath = v
	}
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
