package vault

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	signInPath    = "/api/auth/authenticate/signin"
	verifyOTPPath = "/api/auth/authenticate/verify-otp"
)

// AuthResponse is the backend reply to sign in and code verification.
type AuthResponse struct {
	Message  string `json:"message,omitempty"`
	Username string `json:"username,omitempty"`
}

// SignIn submits the password step. On success the backend sends a one-time code
// out of band, to be passed to VerifyOTP.
func (c *Client) SignIn(ctx context.Context, username, password string) (AuthResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return AuthResponse{}, fmt.Errorf("%w: username and password are required", ErrMissingCredentials)
	}

	body := map[string]string{"username": username, "password": password}
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, signInPath, nil, body, &out); err != nil {
		return AuthResponse{}, fmt.Errorf("signing in: %w", err)
	}
	return out, nil
}

// VerifyOTP submits the one-time code. The backend answers with the session
// cookie, which the client keeps for later calls.
func (c *Client) VerifyOTP(ctx context.Context, username, otp string) (AuthResponse, error) {
	username = strings.TrimSpace(username)
	otp = strings.TrimSpace(otp)
	if username == "" {
		return AuthResponse{}, fmt.Errorf("%w: no username to verify", ErrMissingCredentials)
	}
	if otp == "" {
		return AuthResponse{}, fmt.Errorf("%w: OTP is required", ErrMissingCredentials)
	}

	body := map[string]string{"username": username, "otp": otp}
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, verifyOTPPath, nil, body, &out); err != nil {
		return AuthResponse{}, fmt.Errorf("verifying code: %w", err)
	}
	return out, nil
}
