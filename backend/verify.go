package backend

import (
	"context"
	"net/http"

	"github.com/jrsteele09/orbithall-admin/casing"
	apperrors "github.com/jrsteele09/orbithall-admin/internal/errors"
	"github.com/jrsteele09/orbithall-admin/sessions"
)

// VerifyPath is the backend endpoint exchanging a Google ID token for a backend JWT.
const VerifyPath = "/auth/google/verify"

// VerifyRequest is the Google identity sent to the backend.
type VerifyRequest struct {
	IDToken string `json:"idToken"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// VerifyResponse carries the backend JWT and the backend's user record.
type VerifyResponse struct {
	Token string              `json:"token"`
	User  sessions.BackendUser `json:"user"`
}

// VerifyGoogle exchanges a Google identity for a backend token. It is the only call made
// without a bearer token.
func (c *Client) VerifyGoogle(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	resp, err := c.do(ctx, VerifyPath, "", WithMethod(http.MethodPost), WithJSON(req))
	if err != nil {
		return nil, err
	}
	tree, err := decodeResponse(resp)
	if err != nil {
		return nil, err
	}

	var out VerifyResponse
	if err := casing.FromTree(casing.Camelize(tree), &out); err != nil {
		return nil, apperrors.Wrapf(err, "[backend VerifyGoogle] decode")
	}
	if out.Token == "" {
		return nil, apperrors.Wrapf(apperrors.ErrUnauthorized, "[backend VerifyGoogle] empty token")
	}
	return &out, nil
}
