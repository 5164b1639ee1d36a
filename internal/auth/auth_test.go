package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admintui/internal/api"
	"admintui/internal/mockapi"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func TestExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	assert.False(t, Expired(signed(t, jwt.MapClaims{"exp": 1_700_000_060}), now))
	assert.True(t, Expired(signed(t, jwt.MapClaims{"exp": 1_700_000_000}), now), "exp == now")
	assert.True(t, Expired(signed(t, jwt.MapClaims{"exp": 1_699_999_999}), now))
	assert.True(t, Expired(signed(t, jwt.MapClaims{"sub": "admin"}), now), "no exp")
	assert.True(t, Expired(signed(t, jwt.MapClaims{"exp": "tomorrow"}), now), "exp not a number")
	assert.True(t, Expired("not-a-token", now))
	assert.True(t, Expired("a.%%%.b", now))
	assert.True(t, Expired("", now))
}

func TestLogin_AgainstMockServer(t *testing.T) {
	now := time.Now()
	srv := httptest.NewServer(mockapi.New(nil,
		mockapi.WithUser("admin", "hunter2"),
		mockapi.WithClock(func() time.Time { return now }),
	).Routes())
	defer srv.Close()
	client := api.NewClient(srv.URL)

	sess, err := Login(context.Background(), client, "admin", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "admin", sess.Username())
	assert.True(t, sess.Valid(now))
	assert.False(t, sess.Valid(now.Add(24*time.Hour)))

	_, err = Login(context.Background(), client, "admin", "wrong")
	var aerr *api.APIError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, 401, aerr.Status)
	assert.Equal(t, "Invalid username or password", aerr.Message)
}

func TestLogin_RequiresCredentials(t *testing.T) {
	_, err := Login(context.Background(), api.NewClient("http://127.0.0.1:1"), " ", "x")
	assert.Error(t, err)
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := NewStore(path)
	assert.Equal(t, path, s.Path())

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	want := Session{Token: signed(t, jwt.MapClaims{"exp": 1}), User: map[string]any{"username": "admin"}}
	require.NoError(t, s.Save(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want.Token, got.Token)
	assert.Equal(t, "admin", got.Username())

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	_, err = s.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLogin_TokenOpensProtectedRoutes(t *testing.T) {
	srv := httptest.NewServer(mockapi.New([]string{"devices"},
		mockapi.WithUser("admin", "hunter2"),
		mockapi.RequireAuth(),
	).Routes())
	defer srv.Close()

	_, err := api.NewClient(srv.URL).List(context.Background(), "/devices")
	var aerr *api.APIError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, 401, aerr.Status)

	sess, err := Login(context.Background(), api.NewClient(srv.URL), "admin", "hunter2")
	require.NoError(t, err)
	rows, err := api.NewClient(srv.URL, api.WithToken(sess.Token)).List(context.Background(), "/devices")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
