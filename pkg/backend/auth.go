package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/atunesdelpacifico/storefront/pkg/session"
)

// Login verifies the identity/secret pair. On success the returned token is
// captured for subsequent requests and the raw credentials are handed to
// the session gate, which normalizes the role at its boundary.
//
// The login response is the one endpoint that carries its fields at the top
// level of the envelope rather than under data.
func (c *Client) Login(ctx context.Context, identity, secret string) (session.Credentials, error) {
	body := map[string]string{
		"nombreUsuario": identity,
		"contrasena":    secret,
	}

	raw, err := c.doRaw(ctx, http.MethodPost, "/auth/login", body)
	if err != nil {
		return session.Credentials{}, err
	}

	var resp struct {
		Success       bool      `json:"success"`
		Message       string    `json:"message"`
		Token         string    `json:"token"`
		NombreUsuario string    `json:"nombreUsuario"`
		Correo        string    `json:"correo"`
		Rol           roleField `json:"rol"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return session.Credentials{}, fmt.Errorf("%w: malformed login response", ErrServerError)
	}
	if !resp.Success {
		return session.Credentials{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, orDefault(resp.Message, "login rejected"))
	}

	c.SetToken(resp.Token)

	return session.Credentials{
		Identity: resp.NombreUsuario,
		Email:    resp.Correo,
		Role:     string(resp.Rol),
		Token:    resp.Token,
	}, nil
}

// Register creates a new client account. The caller logs in separately
// afterwards; registration does not issue a token.
func (c *Client) Register(ctx context.Context, req RegistrationRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", req, nil)
}
