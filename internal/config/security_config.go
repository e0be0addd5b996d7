package config

import (
	"strings"
	"time"
)

type SecurityConfig interface {
	GetSessionSecret() []byte
	GetMaxSessionAge() time.Duration
	GetAuthFlowTimeout() time.Duration
	GetSecureCookies() bool
	GetCSRFEnabled() bool
	GetCSRFTrustedOrigins() []string
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetSessionSecret returns nil when SESSION_SECRET is unset; callers fall back to an
// ephemeral key.
func (Security) GetSessionSecret() []byte {
	secret := GetEnv("SESSION_SECRET", "")
	if secret == "" {
		return nil
	}
	return []byte(secret)
}

func (Security) GetMaxSessionAge() time.Duration {
	return 30 * 24 * time.Hour
}

func (Security) GetAuthFlowTimeout() time.Duration {
	return 10 * time.Minute
}

func (Security) GetSecureCookies() bool {
	return GetEnvBool("SESSION_SECURE_COOKIE", EnvVars{}.GetEnv() != "DEV")
}

func (Security) GetCSRFEnabled() bool {
	return !GetEnvBool("CSRF_DISABLED", false)
}

func (Security) GetCSRFTrustedOrigins() []string {
	raw := GetEnv("CSRF_TRUSTED_ORIGINS", "")
	if raw == "" {
		return nil
	}
	var origins []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
