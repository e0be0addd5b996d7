package config

type GoogleConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGoogleIssuer() string
	GetGoogleRedirectURL() string
}

type Google struct{}

var _ GoogleConfig = Google{}

func (Google) GetGoogleClientID() string {
	return GetEnv("AUTH_GOOGLE_ID", "")
}

func (Google) GetGoogleClientSecret() string {
	return GetEnv("AUTH_GOOGLE_SECRET", "")
}

func (Google) GetGoogleIssuer() string {
	return GetEnv("GOOGLE_ISSUER", "https://accounts.google.com")
}

// GetGoogleRedirectURL must match one of the redirect URIs registered for the client.
func (Google) GetGoogleRedirectURL() string {
	return EnvVars{}.GetBaseURL() + "/auth/google/callback"
}
