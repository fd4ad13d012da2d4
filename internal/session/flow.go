// Package session tracks the two-step sign in and persists the resulting
// session between runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Step is the position in the sign-in flow.
type Step int

const (
	// AwaitingPassword is the initial step.
	AwaitingPassword Step = iota
	// AwaitingCode follows an accepted password.
	AwaitingCode
	// Authenticated follows an accepted one-time code.
	Authenticated
)

func (s Step) String() string {
	switch s {
	case AwaitingPassword:
		return "awaiting password"
	case AwaitingCode:
		return "awaiting code"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

var (
	// ErrWrongStep is returned when a step is submitted out of order.
	ErrWrongStep = errors.New("sign-in step submitted out of order")
	// ErrCodeRequired is returned for a blank one-time code.
	ErrCodeRequired = errors.New("OTP is required")
	// ErrNoPendingUser is returned when no username is waiting for a code.
	ErrNoPendingUser = errors.New("no username found in session, please sign in again")
	// ErrPasswordRequired is returned for a blank username or password.
	ErrPasswordRequired = errors.New("username and password are required")
)

// Authenticator performs the backend calls of the flow. *vault.Client satisfies
// it through a thin adapter in the CLI.
type Authenticator interface {
	SignIn(ctx context.Context, username, password string) error
	VerifyOTP(ctx context.Context, username, otp string) error
}

// Flow walks one user through password then code. It is not safe for concurrent
// use.
type Flow struct {
	auth     Authenticator
	step     Step
	username string
}

// NewFlow starts a flow at AwaitingPassword.
func NewFlow(auth Authenticator) *Flow {
	return &Flow{auth: auth}
}

// Step returns the current step.
func (f *Flow) Step() Step {
	return f.step
}

// Username returns the user being signed in, once the password is accepted.
func (f *Flow) Username() string {
	return f.username
}

// SubmitPassword performs the first step. A rejected password leaves the flow at
// AwaitingPassword.
func (f *Flow) SubmitPassword(ctx context.Context, username, password string) error {
	if f.step != AwaitingPassword {
		return fmt.Errorf("%w: %s", ErrWrongStep, f.step)
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrPasswordRequired
	}
	if err := f.auth.SignIn(ctx, username, password); err != nil {
		return err
	}
	f.username = username
	f.step = AwaitingCode
	return nil
}

// SubmitCode performs the second step. A rejected code keeps the flow at
// AwaitingCode so the user can retry.
func (f *Flow) SubmitCode(ctx context.Context, code string) error {
	if f.step != AwaitingCode {
		return fmt.Errorf("%w: %s", ErrWrongStep, f.step)
	}
	if f.username == "" {
		return ErrNoPendingUser
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrCodeRequired
	}
	if err := f.auth.VerifyOTP(ctx, f.username, code); err != nil {
		return err
	}
	f.step = Authenticated
	return nil
}

// Reset returns the flow to AwaitingPassword.
func (f *Flow) Reset() {
	f.step = AwaitingPassword
	f.username = ""
}
