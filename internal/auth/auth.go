// Package auth signs the operator in against the Resource API and keeps the session
// token between runs.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"admintui/internal/api"
)

// ErrNoSession is returned by Store.Load when nobody is logged in.
var ErrNoSession = errors.New("not logged in; run `admintui login`")

// Session is a logged-in operator.
type Session struct {
	Token string         `json:"token"`
	User  map[string]any `json:"user,omitempty"`
}

// Username is the "username" of the user payload, if present.
func (s Session) Username() string {
	if v, ok := s.User["username"].(string); ok {
		return v
	}
	return ""
}

// Valid reports whether the session has a token that has not expired at now.
func (s Session) Valid(now time.Time) bool {
	return s.Token != "" && !Expired(s.Token, now)
}

// Expired reports whether a JWT's exp claim is at or before now. The signature is not
// checked; that is the server's job. Tokens that cannot be decoded, or carry no exp,
// count as expired.
func Expired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return !now.Before(exp.Time)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	} `json:"data"`
}

// Login posts the credentials to /login. A rejected login surfaces the server's
// message through *api.APIError.
func Login(ctx context.Context, client *api.Client, username, password string) (Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return Session{}, errors.New("username and password are required")
	}
	var resp loginResponse
	if err := client.Do(ctx, http.MethodPost, "/login", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}
	if !resp.Success || resp.Data.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "no token in response"
		}
		return Session{}, fmt.Errorf("login: %s", msg)
	}
	return Session{Token: resp.Data.Token, User: resp.Data.User}, nil
}

// Store keeps a Session in a file readable only by its owner.
type Store struct {
	path string
}

// NewStore stores the session at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path is the session file.
func (s *Store) Path() string { return s.path }

// Load reads the stored session. ErrNoSession when there is none.
func (s *Store) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("read session %s: %w", s.path, err)
	}
	if sess.Token == "" {
		return Session{}, ErrNoSession
	}
	return sess, nil
}

// Save writes the session, creating the directory if needed.
func (s *Store) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the stored session. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
