package config

import (
	"os"
	"strings"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type LinkedIn struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	APIURL       string
	OAuthURL     string
}

type Config struct {
	LinkedIn       LinkedIn
	PostgresURI    string
	RedisURI       string
	FrontendURL    string
	Port           string
	MediaDir       string
	PublishTimeout time.Duration
	PublishCron    string
	R2             R2
	SecretKey      string
	CookieName     string

	// PublishOperators may trigger publish-due over HTTP. Empty means any member.
	PublishOperators []string
}

func LoadConfig() *Config {
	return &Config{
		LinkedIn: LinkedIn{
			ClientID:     getEnv("LINKEDIN_CLIENT_ID", ""),
			ClientSecret: getEnv("LINKEDIN_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("LINKEDIN_REDIRECT_URI", "http://localhost:3000/auth/linkedin/callback"),
			APIURL:       getEnv("LINKEDIN_API_URL", "https://api.linkedin.com"),
			OAuthURL:     getEnv("LINKEDIN_OAUTH_URL", "https://www.linkedin.com/oauth/v2"),
		},
		PostgresURI:    getEnv("POSTGRES_URI", ""),
		RedisURI:       getEnv("REDIS_URI", "localhost:6379"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),
		Port:           getEnv("PORT", "3000"),
		MediaDir:       getEnv("MEDIA_DIR", "static/generated_image"),
		PublishTimeout: getDuration("PUBLISH_TIMEOUT", 10*time.Second),
		PublishCron:    getEnv("PUBLISH_CRON", "@every 00h15m00s"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:        getEnv("SECRET_KEY", ""),
		CookieName:       getEnv("COOKIE_NAME", "linkedin_scheduler"),
		PublishOperators: getList("PUBLISH_OPERATORS"),
	}
}

// R2Enabled reports whether every credential needed for the media mirror is set.
func (c Config) R2Enabled() bool {
	return c.R2.AccountID != "" && c.R2.AccessKey != "" && c.R2.SecretKey != "" && c.R2.BucketName != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getList(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
