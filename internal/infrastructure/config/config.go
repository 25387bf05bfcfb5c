// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	AI        AIConfig        `mapstructure:"ai"`
	Tolerance ToleranceConfig `mapstructure:"tolerance"`
	Recall    RecallConfig    `mapstructure:"recall"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	EnableCORS      bool          `mapstructure:"enable_cors"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTExpiration time.Duration `mapstructure:"jwt_expiration"`
	BCryptCost    int           `mapstructure:"bcrypt_cost"`
}

// AIConfig contains model provider configuration. ProviderOrder fixes the
// fail-over chain; it is configuration, never runtime state.
type AIConfig struct {
	ProviderOrder  []string      `mapstructure:"provider_order"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
	Temperature    float64       `mapstructure:"temperature"`

	OpenAIKey   string `mapstructure:"openai_key"`
	OpenAIModel string `mapstructure:"openai_model"`

	AnthropicKey       string `mapstructure:"anthropic_key"`
	AnthropicModel     string `mapstructure:"anthropic_model"`
	AnthropicMaxTokens int    `mapstructure:"anthropic_max_tokens"`

	GeminiKey   string `mapstructure:"gemini_key"`
	GeminiModel string `mapstructure:"gemini_model"`
}

// ToleranceConfig contains the per-macro acceptance bands applied to
// generated daily menus, as fractions of the target
type ToleranceConfig struct {
	Calories      float64 `mapstructure:"calories"`
	Protein       float64 `mapstructure:"protein"`
	Fats          float64 `mapstructure:"fats"`
	Carbohydrates float64 `mapstructure:"carbohydrates"`
}

// RecallConfig contains the semantic chat-recall configuration
type RecallConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	PineconeHost   string `mapstructure:"pinecone_host"`
	PineconeAPIKey string `mapstructure:"pinecone_api_key"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/tasteai")
	}

	// Enable environment variable override
	v.SetEnvPrefix("TASTEAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "TasteAI")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.enable_cors", true)

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "tasteai.db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.auto_migrate", true)

	// Auth defaults
	v.SetDefault("auth.jwt_expiration", "24h")
	v.SetDefault("auth.bcrypt_cost", 10)

	// AI defaults
	v.SetDefault("ai.provider_order", []string{"openai", "anthropic", "gemini"})
	v.SetDefault("ai.attempt_timeout", "60s")
	v.SetDefault("ai.temperature", 0.4)
	v.SetDefault("ai.openai_model", "gpt-4")
	v.SetDefault("ai.anthropic_model", "claude-sonnet-4-20250514")
	v.SetDefault("ai.anthropic_max_tokens", 8192)
	v.SetDefault("ai.gemini_model", "gemini-2.5-flash")

	// Tolerance defaults
	v.SetDefault("tolerance.calories", 0.05)
	v.SetDefault("tolerance.protein", 0.05)
	v.SetDefault("tolerance.fats", 0.10)
	v.SetDefault("tolerance.carbohydrates", 0.10)

	// Recall defaults
	v.SetDefault("recall.enabled", false)
	v.SetDefault("recall.embedding_model", "text-embedding-004")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database.database is required")
	}

	if c.Auth.JWTSecret == "" && c.App.Environment == "production" {
		return fmt.Errorf("auth.jwt_secret is required in production")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if len(c.AI.ProviderOrder) == 0 {
		return fmt.Errorf("ai.provider_order must name at least one provider")
	}
	for _, name := range c.AI.ProviderOrder {
		switch name {
		case "openai", "anthropic", "gemini":
		default:
			return fmt.Errorf("ai.provider_order contains unknown provider %q", name)
		}
	}

	for name, eps := range map[string]float64{
		"tolerance.calories":      c.Tolerance.Calories,
		"tolerance.protein":       c.Tolerance.Protein,
		"tolerance.fats":          c.Tolerance.Fats,
		"tolerance.carbohydrates": c.Tolerance.Carbohydrates,
	} {
		if eps <= 0 || eps >= 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}

	if c.Recall.Enabled {
		if c.Recall.PineconeHost == "" {
			return fmt.Errorf("recall.pinecone_host is required when recall is enabled")
		}
		if c.Recall.PineconeAPIKey == "" {
			return fmt.Errorf("recall.pinecone_api_key is required when recall is enabled")
		}
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Database
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.Username,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}
