package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration for the chat service.
type Config struct {
	AppEnv        string
	AppPort       string
	DataDir       string
	UploadsDir    string
	RedisURL      string
	JWTSecret     string
	JWTTTL        time.Duration
	MaxUploadMiB  int64
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}
	return fmt.Sprintf(":%s", c.AppPort)
}

// MaxUploadBytes returns the attachment size limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMiB * 1024 * 1024
}

// Load reads configuration from environment variables and an optional
// .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HUDDLE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("data.dir", "data")
	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("upload.max_mib", 50)

	ttl, err := time.ParseDuration(v.GetString("jwt.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt ttl: %w", err)
	}

	cfg := Config{
		AppEnv:       v.GetString("app.env"),
		AppPort:      v.GetString("app.port"),
		DataDir:      v.GetString("data.dir"),
		UploadsDir:   v.GetString("uploads.dir"),
		RedisURL:     v.GetString("redis.url"),
		JWTSecret:    v.GetString("jwt.secret"),
		JWTTTL:       ttl,
		MaxUploadMiB: v.GetInt64("upload.max_mib"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}
	if cfg.MaxUploadMiB <= 0 {
		cfg.MaxUploadMiB = 50
	}

	return cfg, nil
}
