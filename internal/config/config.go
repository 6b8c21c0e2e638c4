// Package config loads pipeline configuration from defaults, an optional
// YAML file, and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Broker     BrokerConfig     `mapstructure:"broker"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch"`
	Generator  GeneratorConfig  `mapstructure:"generator"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type BrokerConfig struct {
	URL            string        `mapstructure:"url"`
	Stream         string        `mapstructure:"stream"`
	Subject        string        `mapstructure:"subject"`
	Durable        string        `mapstructure:"durable"`
	PollWait       time.Duration `mapstructure:"poll_wait"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type OpenSearchConfig struct {
	URL           string `mapstructure:"url"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	Index         string `mapstructure:"index"`
	TLSSkipVerify bool   `mapstructure:"tls_skip_verify"`
}

type GeneratorConfig struct {
	// Mode selects the event source: "live" calls the external person
	// and reverse-geocoding services, "local" generates events offline.
	Mode          string        `mapstructure:"mode"`
	UserURL       string        `mapstructure:"user_url"`
	GeocodeURL    string        `mapstructure:"geocode_url"`
	GeocodeAPIKey string        `mapstructure:"geocode_api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Load reads configuration from the given file path, falling back to
// defaults when the path is empty or the file is absent. Environment
// variables prefixed with PROFILESTREAM_ override everything, e.g.
// PROFILESTREAM_BROKER_URL.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("broker.url", "nats://localhost:4222")
	v.SetDefault("broker.stream", "USERS")
	v.SetDefault("broker.subject", "users.profile")
	v.SetDefault("broker.durable", "user-consumer")
	v.SetDefault("broker.poll_wait", "1s")
	v.SetDefault("broker.max_reconnects", -1)
	v.SetDefault("broker.reconnect_wait", "2s")
	v.SetDefault("broker.connect_timeout", "5s")
	v.SetDefault("opensearch.url", "https://localhost:9200")
	v.SetDefault("opensearch.username", "admin")
	v.SetDefault("opensearch.password", "admin")
	v.SetDefault("opensearch.index", "users")
	v.SetDefault("opensearch.tls_skip_verify", true)
	v.SetDefault("generator.mode", "live")
	v.SetDefault("generator.user_url", "https://randomuser.me/api/")
	v.SetDefault("generator.geocode_url", "https://api.geoapify.com/v1/geocode/reverse")
	v.SetDefault("generator.geocode_api_key", "")
	v.SetDefault("generator.timeout", "10s")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9102)

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/profilestream")
	}

	// Environment variables override
	v.SetEnvPrefix("PROFILESTREAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Broker.Stream == "" {
		return fmt.Errorf("broker.stream must not be empty")
	}
	if c.Broker.Subject == "" {
		return fmt.Errorf("broker.subject must not be empty")
	}
	if c.OpenSearch.Index == "" {
		return fmt.Errorf("opensearch.index must not be empty")
	}
	if c.Generator.Mode != "live" && c.Generator.Mode != "local" {
		return fmt.Errorf("generator.mode must be %q or %q, got %q", "live", "local", c.Generator.Mode)
	}
	return nil
}
