package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                  string
	AllowedOrigin         string
	DatabaseURL           string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	QuoteTTLSeconds       int
	AuthSecret            string
	AccessTokenTTLMinutes int
	PublishWebhookURL     string
	PublishWebhookSecret  string
	CDNBaseURL            string
	CDNCloudName          string
	CDNAPIKey             string
	CDNAPISecret          string
}

func Load() Config {
	// .env is a development convenience; production sets variables directly.
	if os.Getenv("ENV") != "production" {
		if err := godotenv.Load(); err == nil {
			log.Printf("[config] loaded environment from .env")
		}
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	quoteTTL, err := strconv.Atoi(getEnv("QUOTE_TTL_SECONDS", "60"))
	if err != nil || quoteTTL < 1 {
		quoteTTL = 60
	}
	tokenTTL, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MINUTES", "480"))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 480
	}

	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		AllowedOrigin:         getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               redisDB,
		QuoteTTLSeconds:       quoteTTL,
		AuthSecret:            strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AccessTokenTTLMinutes: tokenTTL,
		PublishWebhookURL:     strings.TrimSpace(os.Getenv("PUBLISH_WEBHOOK_URL")),
		PublishWebhookSecret:  strings.TrimSpace(os.Getenv("PUBLISH_WEBHOOK_SECRET")),
		CDNBaseURL:            strings.TrimSpace(os.Getenv("CDN_BASE_URL")),
		CDNCloudName:          strings.TrimSpace(os.Getenv("CDN_CLOUD_NAME")),
		CDNAPIKey:             strings.TrimSpace(os.Getenv("CDN_API_KEY")),
		CDNAPISecret:          strings.TrimSpace(os.Getenv("CDN_API_SECRET")),
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
