package config

import "time"

type Config interface {
	EnvConfig
	BackendConfig
	GoogleConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetLogLevel() string
}

type BackendConfig interface {
	GetAPIURL() string
	GetViewCacheTTL() time.Duration
}

type mainConfig struct {
	EnvVars
	Backend
	Google
	Security
}

func New() Config {
	return mainConfig{}
}
