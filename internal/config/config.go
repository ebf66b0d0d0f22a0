package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr           string   `mapstructure:"addr"`
	DatabaseURL    string   `mapstructure:"database_url"`
	MediaRoot      string   `mapstructure:"media_root"`
	PublicBaseURL  string   `mapstructure:"public_base_url"`
	LogLevel       string   `mapstructure:"log_level"`
	LogFormat      string   `mapstructure:"log_format"`
	MaxUploadMB    int      `mapstructure:"max_upload_mb"`
	SlugRetries    int      `mapstructure:"slug_retries"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// CatalogAdmin mounts the unauthenticated product write endpoints.
	CatalogAdmin   bool     `mapstructure:"catalog_admin"`
}

// Load reads configuration from a .env file (when present) and environment
// variables prefixed with RIOR_. DATABASE_URL is read without the prefix.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("RIOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.BindEnv("database_url", "DATABASE_URL", "RIOR_DATABASE_URL"); err != nil {
		return Config{}, fmt.Errorf("bind database_url: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	// comma separated lists arrive as a single string from the environment
	if len(cfg.AllowedOrigins) == 1 && strings.Contains(cfg.AllowedOrigins[0], ",") {
		cfg.AllowedOrigins = strings.Split(cfg.AllowedOrigins[0], ",")
	}

	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("database_url", "")
	v.SetDefault("media_root", "./media")
	v.SetDefault("public_base_url", "http://127.0.0.1:8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("max_upload_mb", 20)
	v.SetDefault("slug_retries", 3)
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("catalog_admin", false)
}

func validate(cfg Config) error {
	if cfg.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", cfg.MaxUploadMB)
	}
	if cfg.SlugRetries < 1 {
		return fmt.Errorf("slug_retries must be at least 1, got %d", cfg.SlugRetries)
	}
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return fmt.Errorf("log_format must be 'console' or 'json', got: %s", cfg.LogFormat)
	}
	if cfg.MediaRoot == "" {
		return fmt.Errorf("media_root is required")
	}
	return nil
}

// Origins joins the allowed origins in the form the CORS middleware expects.
func (c Config) Origins() string {
	return strings.Join(c.AllowedOrigins, ",")
}
