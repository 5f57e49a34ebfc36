package api

import (
	"context"
	"net/http"

	"github.com/retailpos/backoffice/internal/domain"
)

// Login exchanges credentials for a session. A 401 maps to
// domain.ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, form domain.LoginForm) (domain.LoginResponse, error) {
	var resp domain.LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/session/login", nil, form, &resp)
	if err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}
	return resp, nil
}

// Signup registers a new user and returns the server's confirmation message.
func (c *Client) Signup(ctx context.Context, form domain.SignupForm) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/users/signup", nil, form, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
