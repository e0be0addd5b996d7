package authflowrepo

import "time"

// AuthFlowState is what the login handler remembers between the redirect to
// Google and the callback, keyed by the OAuth state parameter.
type AuthFlowState struct {
	CodeVerifier string
	Nonce        string
	ReturnURL    string
	CreatedAt    time.Time
}

// Expired reports whether the flow is older than timeout.
func (s *AuthFlowState) Expired(now time.Time, timeout time.Duration) bool {
	return timeout > 0 && now.Sub(s.CreatedAt) > timeout
}

type Repo interface {
	Upsert(state string, authState *AuthFlowState) error
	Delete(state string) error
	// Take returns the state and removes it so a callback cannot be replayed.
	Take(state string) (*AuthFlowState, error)
}
