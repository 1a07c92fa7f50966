package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv         string `mapstructure:"APP_ENV"`
	Port           string `mapstructure:"PORT"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	DBHost string `mapstructure:"DB_HOST"`
	DBUser string `mapstructure:"DB_USER"`
	DBPass string `mapstructure:"DB_PASS"`
	DBName string `mapstructure:"DB_NAME"`
	DBPort string `mapstructure:"DB_PORT"`

	RedisURL string `mapstructure:"REDIS_URL"`

	MeiliSearchHost string `mapstructure:"MEILISEARCH_HOST"`
	MeiliMasterKey  string `mapstructure:"MEILI_MASTER_KEY"`

	CloudinaryCloudName    string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey       string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret    string `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryUploadFolder string `mapstructure:"CLOUDINARY_UPLOAD_FOLDER"`

	JWTSecret     string `mapstructure:"JWT_SECRET"`
	JWTTTLMinutes int    `mapstructure:"JWT_TTL_MINUTES"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailFrom     string `mapstructure:"MAIL_FROM"`

	SiteURL  string `mapstructure:"SITE_URL"`
	SiteName string `mapstructure:"SITE_NAME"`

	TwitterConsumerKey    string `mapstructure:"TWITTER_CONSUMER_KEY"`
	TwitterConsumerSecret string `mapstructure:"TWITTER_CONSUMER_SECRET"`
	TwitterAccessToken    string `mapstructure:"TWITTER_ACCESS_TOKEN"`
	TwitterAccessSecret   string `mapstructure:"TWITTER_ACCESS_SECRET"`

	ResetTokenTTL      time.Duration `mapstructure:"RESET_TOKEN_TTL"`
	RateLimitReset     time.Duration `mapstructure:"RATE_LIMIT_RESET"`
	RateLimitLogin     time.Duration `mapstructure:"RATE_LIMIT_LOGIN"`
	TokenPurgeSchedule string        `mapstructure:"TOKEN_PURGE_SCHEDULE"`
}

var defaults = map[string]any{
	"APP_ENV":         "development",
	"PORT":            "8080",
	"ALLOWED_ORIGINS": "http://localhost:3000",

	"DB_HOST": "localhost",
	"DB_USER": "postgres",
	"DB_PASS": "",
	"DB_NAME": "news_addiction",
	"DB_PORT": "5432",

	"REDIS_URL": "",

	"MEILISEARCH_HOST": "http://localhost:7700",
	"MEILI_MASTER_KEY": "",

	"CLOUDINARY_CLOUD_NAME":    "",
	"CLOUDINARY_API_KEY":       "",
	"CLOUDINARY_API_SECRET":    "",
	"CLOUDINARY_UPLOAD_FOLDER": "news_addiction",

	"JWT_SECRET":      "change-me",
	"JWT_TTL_MINUTES": 60,

	"SMTP_HOST":     "",
	"SMTP_PORT":     587,
	"SMTP_USERNAME": "",
	"SMTP_PASSWORD": "",
	"MAIL_FROM":     "example@domain.com",

	"SITE_URL":  "http://localhost:8080/",
	"SITE_NAME": "News Addiction",

	"TWITTER_CONSUMER_KEY":    "",
	"TWITTER_CONSUMER_SECRET": "",
	"TWITTER_ACCESS_TOKEN":    "",
	"TWITTER_ACCESS_SECRET":   "",

	"RESET_TOKEN_TTL":      "5m",
	"RATE_LIMIT_RESET":     "1m",
	"RATE_LIMIT_LOGIN":     "2s",
	"TOKEN_PURGE_SCHEDULE": "@every 1h",
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if !strings.HasSuffix(cfg.SiteURL, "/") {
		cfg.SiteURL += "/"
	}
	if !strings.HasPrefix(cfg.MeiliSearchHost, "http") {
		cfg.MeiliSearchHost = "http://" + cfg.MeiliSearchHost + ":7700"
	}
	if cfg.ResetTokenTTL <= 0 {
		return nil, fmt.Errorf("invalid RESET_TOKEN_TTL: must be positive")
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) JWTTTL() time.Duration {
	if c.JWTTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}
