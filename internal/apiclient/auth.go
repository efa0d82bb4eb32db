package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// User is the portfolio owner's public profile.
type User struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	About    []string `json:"about"`
	Photo    string   `json:"photo"`
	Github   string   `json:"github"`
	Linkedin string   `json:"linkedin"`
}

// Session is the result of a successful login.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	data, err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	sess, err := decodeOne[Session](data)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	if sess.Token == "" {
		return nil, fmt.Errorf("logging in: %w", ErrEmptyResponse)
	}
	return sess, nil
}

// Logout invalidates the current token on the server.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// Profile returns the owner's profile.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return decodeOne[User](data, "user")
}

// UpdateProfile replaces the owner's profile.
func (c *Client) UpdateProfile(ctx context.Context, user User) (*User, error) {
	data, err := c.do(ctx, http.MethodPut, "/api/auth/profile", user)
	if err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return decodeOne[User](data, "user")
}
