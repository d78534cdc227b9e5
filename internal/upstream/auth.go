package upstream

import (
	"context"

	pkgerrors "github.com/kantinapp/kantin-gateway/pkg/errors"
)

// Role identifies who a bearer token belongs to upstream.
type Role string

const (
	RoleStudent Role = "siswa"
	RoleStand   Role = "stand"
)

func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleStand
}

var loginPaths = map[Role]string{
	RoleStudent: "login_siswa",
	RoleStand:   "login_stan",
}

var registerPaths = map[Role]string{
	RoleStudent: "register_siswa",
	RoleStand:   "register_stan",
}

// LoginResult carries the extracted token plus the untouched upstream payload
// so callers can surface profile fields without re-fetching.
type LoginResult struct {
	Token string
	Raw   any
}

// Login authenticates against the role-specific upstream endpoint.
func (c *Client) Login(ctx context.Context, role Role, username, password string) (*LoginResult, error) {
	path, ok := loginPaths[role]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
	}
	decoded, err := c.postForm(ctx, "", path, map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	token := ExtractToken(decoded)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "upstream login returned no token")
	}
	return &LoginResult{Token: token, Raw: decoded}, nil
}

// Register creates an account for the role; profile fields pass through as-is.
func (c *Client) Register(ctx context.Context, role Role, profile map[string]string) (any, error) {
	path, ok := registerPaths[role]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
	}
	return c.postForm(ctx, "", path, profile)
}
