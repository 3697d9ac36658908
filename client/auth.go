package client

import (
	"clementus360/task-manager/types"
	"context"
	"net/http"
)

// Signup registers a user and, when the server hands back a token, starts a
// session with it.
func (c *Client) Signup(ctx context.Context, creds types.Credentials) (types.AuthResponse, error) {
	var resp types.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/signup", body: creds, public: true, context: "Signup failed"}, &resp); err != nil {
		return resp, err
	}
	if resp.Token != "" {
		if err := c.session.Set(resp.Token); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (types.AuthResponse, error) {
	var resp types.AuthResponse
	creds := types.Credentials{Email: email, Password: password}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: creds, public: true, context: "Login failed"}, &resp); err != nil {
		return resp, err
	}
	if err := c.session.Set(resp.Token); err != nil {
		return resp, err
	}
	return resp, nil
}

// Restore loads the persisted token and asks the server who it belongs to.
// A rejected token is dropped from the session.
func (c *Client) Restore(ctx context.Context) (types.User, error) {
	var user types.User
	if _, err := c.session.Acquire(); err != nil {
		return user, err
	}
	err := c.do(ctx, request{method: http.MethodGet, path: "/auth/validate-token", context: "Session check failed"}, &user)
	return user, err
}

// Logout ends the session locally even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	if c.session.Authenticated() {
		err := c.do(ctx, request{method: http.MethodPost, path: "/auth/logout", context: "Logout failed"}, nil)
		if err != nil && !IsAuth(err) {
			c.log.WithError(err).Warn("server logout failed")
		}
	}
	return c.session.Clear()
}
