package session

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	signIns  int
	verifies []string
	err      error
}

func (a *fakeAuth) SignIn(_ context.Context, _, _ string) error {
	a.signIns++
	return a.err
}

func (a *fakeAuth) VerifyOTP(_ context.Context, username, otp string) error {
	a.verifies = append(a.verifies, username+":"+otp)
	return a.err
}

func TestFlow_HappyPath(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{}
	f := NewFlow(auth)
	assert.Equal(t, AwaitingPassword, f.Step())

	require.NoError(t, f.SubmitPassword(ctx, " alice ", "pw"))
	assert.Equal(t, AwaitingCode, f.Step())
	assert.Equal(t, "alice", f.Username())

	require.NoError(t, f.SubmitCode(ctx, " 123456 "))
	assert.Equal(t, Authenticated, f.Step())
	assert.Equal(t, []string{"alice:123456"}, auth.verifies)
}

func TestFlow_OutOfOrder(t *testing.T) {
	ctx := context.Background()
	f := NewFlow(&fakeAuth{})

	require.ErrorIs(t, f.SubmitCode(ctx, "123456"), ErrWrongStep)

	require.NoError(t, f.SubmitPassword(ctx, "alice", "pw"))
	require.ErrorIs(t, f.SubmitPassword(ctx, "alice", "pw"), ErrWrongStep)

	f.Reset()
	assert.Equal(t, AwaitingPassword, f.Step())
	assert.Empty(t, f.Username())
}

func TestFlow_Validation(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{}
	f := NewFlow(auth)

	require.ErrorIs(t, f.SubmitPassword(ctx, "  ", "pw"), ErrPasswordRequired)
	require.ErrorIs(t, f.SubmitPassword(ctx, "alice", ""), ErrPasswordRequired)
	assert.Zero(t, auth.signIns)

	require.NoError(t, f.SubmitPassword(ctx, "alice", "pw"))
	require.ErrorIs(t, f.SubmitCode(ctx, "   "), ErrCodeRequired)
	assert.Empty(t, auth.verifies)
}

func TestFlow_RejectedStepsStay(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{err: errors.New("invalid")}
	f := NewFlow(auth)

	require.Error(t, f.SubmitPassword(ctx, "alice", "bad"))
	assert.Equal(t, AwaitingPassword, f.Step())

	auth.err = nil
	require.NoError(t, f.SubmitPassword(ctx, "alice", "pw"))

	auth.err = errors.New("invalid code")
	require.Error(t, f.SubmitCode(ctx, "000000"))
	assert.Equal(t, AwaitingCode, f.Step(), "a wrong code can be retried")
}

func TestStore_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vaultctl")
	s := NewStore(dir)

	_, err := s.Load()
	require.ErrorIs(t, err, ErrNoSession)

	st := State{
		Username:    "alice",
		BaseURL:     "http://localhost:8080",
		OTPVerified: true,
		Cookies:     FromHTTPCookies([]*http.Cookie{{Name: "JSESSIONID", Value: "abc"}}),
		SavedAt:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, s.Save(st))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := s.Load()
	require.NoError(t, err)
	assert.True(t, st.SavedAt.Equal(got.SavedAt))
	got.SavedAt = st.SavedAt
	assert.Equal(t, st, got)

	cookies := got.HTTPCookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "JSESSIONID", cookies[0].Name)
	assert.Equal(t, "abc", cookies[0].Value)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	_, err = s.Load()
	require.ErrorIs(t, err, ErrNoSession)
}

func TestStore_UnverifiedIsNoSession(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Save(State{Username: "alice"}))

	_, err := s.Load()
	require.ErrorIs(t, err, ErrNoSession)
}

func TestStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("username: [oops"), 0o600))

	_, err := NewStore(dir).Load()
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoSession)
}
