package config

import (
	"os"
	"strings"
)

type ServerConfig struct {
	Port        string
	CorsOrigins []string
}

func GetServerConfig() (*ServerConfig, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	origins := []string{"*"}
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, origin := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return &ServerConfig{
		Port:        port,
		CorsOrigins: origins,
	}, nil
}
