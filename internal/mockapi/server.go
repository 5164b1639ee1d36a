// Package mockapi serves the Resource API from memory. It backs local development
// (cmd/mockapi) and the HTTP client tests.
package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"admintui/internal/record"
)

type collection struct {
	nextID int
	rows   []record.Record
}

// Server is an in-memory Resource API.
type Server struct {
	mu          sync.Mutex
	collections map[string]*collection
	users       map[string]string
	tokenTTL    time.Duration
	signingKey  []byte
	requireAuth bool
	now         func() time.Time
	logger      *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithUser lets username/password log in.
func WithUser(username, password string) Option {
	return func(s *Server) { s.users[username] = password }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithSigningKey sets the HMAC key tokens are signed with. The default is random
// per Server.
func WithSigningKey(key []byte) Option {
	return func(s *Server) { s.signingKey = key }
}

// RequireAuth rejects collection requests without a valid bearer token.
func RequireAuth() Option {
	return func(s *Server) { s.requireAuth = true }
}

// WithClock replaces time.Now for token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New serves the given collections, named by their path segment ("devices",
// "accountCredentials", ...).
func New(collections []string, opts ...Option) *Server {
	s := &Server{
		collections: map[string]*collection{},
		users:       map[string]string{},
		tokenTTL:    12 * time.Hour,
		signingKey:  []byte(uuid.NewString()),
		now:         time.Now,
		logger:      zap.NewNop(),
	}
	for _, c := range collections {
		s.collections[c] = &collection{nextID: 1}
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)
	r.Post("/login", s.handleLogin)
	r.Route("/{collection}", func(r chi.Router) {
		if s.requireAuth {
			r.Use(s.authenticate)
		}
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Post("/batch", s.handleBatch)
		r.Put("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})
	return r
}

// Seed inserts rows directly, assigning ids.
func (s *Server) Seed(name string, rows ...record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = &collection{nextID: 1}
		s.collections[name] = c
	}
	for _, r := range rows {
		c.insert(r)
	}
}

// Len reports how many rows a collection holds.
func (s *Server) Len(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[name]; ok {
		return len(c.rows)
	}
	return 0
}

func (c *collection) insert(body record.Record) record.Record {
	id := c.nextID
	c.nextID++
	rec := withID(id, body)
	c.rows = append(c.rows, rec)
	return rec
}

func (c *collection) index(id string) int {
	for i, r := range c.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func withID(id int, body record.Record) record.Record {
	fields := []record.Field{{Name: record.IDField, Value: json.Number(strconv.Itoa(id))}}
	for _, f := range body.Fields() {
		if f.Name != record.IDField {
			fields = append(fields, f)
		}
	}
	return record.New(fields...)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*collection, bool) {
	name := chi.URLParam(r, "collection")
	c, ok := s.collections[name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown collection %q", name))
	}
	return c, ok
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	rows := make([]record.Record, len(c.rows))
	copy(rows, c.rows)
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body record.Record
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	rec := c.insert(body)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Record created successfully", "data": rec})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var body record.Record
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	i := c.index(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("record %s not found", id))
		return
	}
	n, _ := strconv.Atoi(id)
	c.rows[i] = withID(n, body)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Record updated successfully", "data": c.rows[i]})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	i := c.index(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("record %s not found", id))
		return
	}
	c.rows = append(c.rows[:i], c.rows[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Record deleted successfully"})
}

// handleBatch creates every non-empty record of the body's array, which must sit
// under the collection's own name: {"devices": [...]} for /devices/batch.
// Empty objects are skipped, so the reported count can fall short of the input.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")
	var body map[string][]record.Record
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	rows, ok := body[name]
	if !ok || len(body) != 1 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("expected {%q: [...]}", name))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	count := 0
	for _, row := range rows {
		if row.Len() == 0 {
			continue
		}
		c.insert(row)
		count++
	}
	writeJSON(w, http.StatusCreated, map[string]int{"count": count})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid JSON body"})
		return
	}
	s.mu.Lock()
	want, ok := s.users[req.Username]
	s.mu.Unlock()
	if !ok || want != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid username or password"})
		return
	}
	token, err := s.token(req.Username)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"token": token,
			"user":  map[string]string{"username": req.Username},
		},
	})
}

// token signs an HS256 JWT for username that expires after tokenTTL.
func (s *Server) token(username string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		_, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return s.signingKey, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(s.now),
			jwt.WithExpirationRequired())
		if err != nil {
			s.logger.Debug("token rejected", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
