package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Editor    EditorConfig
	Render    RenderConfig
	Pexels    PexelsConfig
	Storage   StorageConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration int // hours
}

type RateLimitConfig struct {
	SessionsPerMin int
	RendersPerHour int
	MediaPerMin    int
}

// EditorConfig holds the composition defaults
type EditorConfig struct {
	FPS                     int
	VisibleRows             int
	DefaultDurationInFrames int
}

// RenderConfig controls the render pipeline
type RenderConfig struct {
	PollInterval time.Duration
	Concurrency  int
}

// PexelsConfig configures the stock media client; without an API key the
// client serves its built-in library.
type PexelsConfig struct {
	APIKey  string
	BaseURL string
}

// StorageConfig configures the R2 bucket rendered videos are published to
type StorageConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("server.port", "3000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expiration", 24)
	viper.SetDefault("ratelimit.sessions_per_min", 30)
	viper.SetDefault("ratelimit.renders_per_hour", 10)
	viper.SetDefault("ratelimit.media_per_min", 60)
	viper.SetDefault("editor.fps", 30)
	viper.SetDefault("editor.visible_rows", 5)
	viper.SetDefault("editor.default_duration_in_frames", 200)
	viper.SetDefault("render.poll_interval", "2s")
	viper.SetDefault("render.concurrency", 10)
	viper.SetDefault("pexels.base_url", "https://api.pexels.com")

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
			Env:  viper.GetString("server.env"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("jwt.secret"),
			Expiration: viper.GetInt("jwt.expiration"),
		},
		RateLimit: RateLimitConfig{
			SessionsPerMin: viper.GetInt("ratelimit.sessions_per_min"),
			RendersPerHour: viper.GetInt("ratelimit.renders_per_hour"),
			MediaPerMin:    viper.GetInt("ratelimit.media_per_min"),
		},
		Editor: EditorConfig{
			FPS:                     viper.GetInt("editor.fps"),
			VisibleRows:             viper.GetInt("editor.visible_rows"),
			DefaultDurationInFrames: viper.GetInt("editor.default_duration_in_frames"),
		},
		Render: RenderConfig{
			PollInterval: viper.GetDuration("render.poll_interval"),
			Concurrency:  viper.GetInt("render.concurrency"),
		},
		Pexels: PexelsConfig{
			APIKey:  viper.GetString("pexels.api_key"),
			BaseURL: viper.GetString("pexels.base_url"),
		},
		Storage: StorageConfig{
			AccountID:       viper.GetString("storage.account_id"),
			AccessKeyID:     viper.GetString("storage.access_key_id"),
			SecretAccessKey: viper.GetString("storage.secret_access_key"),
			BucketName:      viper.GetString("storage.bucket_name"),
			PublicURL:       viper.GetString("storage.public_url"),
		},
	}

	return cfg, nil
}
