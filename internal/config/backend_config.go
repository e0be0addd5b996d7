package config

import (
	"strings"
	"time"
)

type Backend struct{}

var _ BackendConfig = Backend{}

// GetAPIURL returns the OrbitHall backend base URL without a trailing slash.
func (Backend) GetAPIURL() string {
	return strings.TrimRight(GetEnv("API_URL", "http://localhost:8000"), "/")
}

func (Backend) GetViewCacheTTL() time.Duration {
	seconds := GetEnvInt("VIEW_CACHE_TTL_SECONDS", 30)
	if seconds < 0 {
		seconds = 0
	}
	return time.Duration(seconds) * time.Second
}
