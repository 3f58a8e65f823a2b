package app

import (
	"strings"

	"github.com/geniehq/genie-backend/internal/platform/envutil"
)

type Config struct {
	JWTSecretKey    string
	AllowOrigins    []string
	GraphBaseURL    string
	GraphAPIKey     string
	RedisAddr       string
	RedisChannel    string
	DefaultProvider string
	DefaultModel    string
	ServiceName     string
}

func LoadConfig() Config {
	origins := strings.Split(envutil.Str("CORS_ALLOW_ORIGINS", "http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return Config{
		JWTSecretKey:    envutil.Str("JWT_SECRET_KEY", ""),
		AllowOrigins:    origins,
		GraphBaseURL:    envutil.Str("GRAPH_ENGINE_URL", "http://localhost:2024"),
		GraphAPIKey:     envutil.Str("GRAPH_ENGINE_API_KEY", ""),
		RedisAddr:       envutil.Str("REDIS_ADDR", ""),
		RedisChannel:    envutil.Str("REDIS_SSE_CHANNEL", "genie:sse"),
		DefaultProvider: envutil.Str("DEFAULT_MODEL_PROVIDER", "azure-openai"),
		DefaultModel:    envutil.Str("DEFAULT_MODEL_NAME", "gpt-4o"),
		ServiceName:     envutil.Str("OTEL_SERVICE_NAME", "genie-backend"),
	}
}
