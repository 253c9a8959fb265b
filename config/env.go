package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv reads the given .env files into the process environment. A missing
// file is not fatal; defaults cover every setting.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return os.ErrNotExist
	}
	return godotenv.Load(existing...)
}

func GetEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetEnvOrDefault(key, fallback string) string {
	if v := GetEnv(key); v != "" {
		return v
	}
	return fallback
}

func GetEnvBool(key string, fallback bool) bool {
	v := GetEnv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// AppConfig holds every setting the service reads from the environment.
type AppConfig struct {
	Port                  string
	Env                   string
	LogDir                string
	CorsAllowOrigins      string
	ElasticsearchAddress  string
	ElasticsearchUsername string
	ElasticsearchPassword string
	ElasticsearchIndex    string
	ElasticsearchDebug    bool
}

func LoadAppConfig() AppConfig {
	return AppConfig{
		Port:                  GetEnvOrDefault("PORT", "8080"),
		Env:                   GetEnvOrDefault("APP_ENV", "development"),
		LogDir:                GetEnvOrDefault("LOG_DIR", "logs"),
		CorsAllowOrigins:      GetEnvOrDefault("CORS_ALLOW_ORIGINS", "*"),
		ElasticsearchAddress:  GetEnvOrDefault("ELASTICSEARCH_ADDRESS", "http://localhost:9200"),
		ElasticsearchUsername: GetEnv("ELASTICSEARCH_USERNAME"),
		ElasticsearchPassword: GetEnv("ELASTICSEARCH_PASSWORD"),
		ElasticsearchIndex:    GetEnvOrDefault("ELASTICSEARCH_INDEX", "bugdemo"),
		ElasticsearchDebug:    GetEnvBool("ELASTICSEARCH_DEBUG", false),
	}
}

func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}
