package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_CRUD(t *testing.T) {
	s := New([]string{"devices"})
	h := s.Routes()

	rec := do(t, h, http.MethodPost, "/devices", `{"device_id":"a"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Record created successfully","data":{"id":1,"device_id":"a"}}`, rec.Body.String())

	rec = do(t, h, http.MethodPut, "/devices/1", `{"device_id":"b"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/devices", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"device_id":"b"}]`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/devices/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, s.Len("devices"))

	rec = do(t, h, http.MethodDelete, "/devices/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"record 1 not found"}`, rec.Body.String())
}

func TestServer_UnknownCollection(t *testing.T) {
	rec := do(t, New(nil).Routes(), http.MethodGet, "/printers", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_BatchSkipsEmptyRecords(t *testing.T) {
	s := New([]string{"devices"})
	rec := do(t, s.Routes(), http.MethodPost, "/devices/batch", `{"devices":[{"device_id":"a"},{},{"device_id":"c"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"count":2}`, rec.Body.String())
	assert.Equal(t, 2, s.Len("devices"))
}

func TestServer_Login(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := New(nil, WithUser("admin", "secret"), WithClock(func() time.Time { return now }))
	h := s.Routes()

	rec := do(t, h, http.MethodPost, "/login", `{"username":"admin","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/login", `{"username":"admin","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, strings.Split(resp.Data.Token, "."), 3)

	claims := &jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(resp.Data.Token, claims)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, now.Add(12*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestServer_BatchRequiresCollectionKey(t *testing.T) {
	s := New([]string{"devices"})
	h := s.Routes()

	rec := do(t, h, http.MethodPost, "/devices/batch", `{"items":[{"device_id":"a"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"expected {\"devices\": [...]}"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/devices/batch", `{"devices":[{"device_id":"a"}],"extra":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/devices/batch", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, s.Len("devices"))
}

func TestServer_RequireAuth(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := now
	s := New([]string{"devices"},
		WithUser("admin", "secret"),
		WithSigningKey([]byte("k1")),
		WithClock(func() time.Time { return clock }),
		RequireAuth())
	h := s.Routes()

	rec := do(t, h, http.MethodGet, "/devices", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/login", `{"username":"admin","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	get := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/devices", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, get(resp.Data.Token))

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("other-key"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(forged))

	clock = now.Add(13 * time.Hour)
	assert.Equal(t, http.StatusUnauthorized, get(resp.Data.Token))
}
