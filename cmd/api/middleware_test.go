package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hafizmfadli/go-cinema/internal/data"
	"github.com/stretchr/testify/assert"
)

func TestAuthenticateMissingToken(t *testing.T) {
	app, _, _ := newTestApplication(t, adminUser())

	req := httptest.NewRequest(http.MethodGet, "/movies", nil)
	rec := httptest.NewRecorder()

	app.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	app, _, _ := newTestApplication(t, adminUser())

	for _, header := range []string{"Bearer", "Basic " + testToken, testToken} {
		req := httptest.NewRequest(http.MethodGet, "/movies", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		app.routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthenticateUnknownToken(t *testing.T) {
	app, _, _ := newTestApplication(t, adminUser())

	req := httptest.NewRequest(http.MethodGet, "/movies", nil)
	req.Header.Set("Authorization", "Bearer "+strings.Repeat("B", 26))
	rec := httptest.NewRecorder()

	app.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminDeniesRegularUser(t *testing.T) {
	app, movies, _ := newTestApplication(t, regularUser())

	body := strings.NewReader(`{"title":"Alien","genre":"Sci-Fi","description":"In space no one can hear you scream.","director":"Ridley Scott","year":1979}`)

	req := httptest.NewRequest(http.MethodPost, "/movies", body)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()

	app.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	// The denial must short-circuit before the repository runs.
	assert.Zero(t, movies.insertCalls)
}

func TestRequireAdminDeniesUnauthenticated(t *testing.T) {
	app, movies, _ := newTestApplication(t, nil)

	req := httptest.NewRequest(http.MethodDelete, "/movies/1", nil)
	rec := httptest.NewRecorder()

	app.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, movies.deleteCalls)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	app, movies, _ := newTestApplication(t, adminUser())

	body := strings.NewReader(`{"title":"Alien","genre":"Sci-Fi","description":"In space no one can hear you scream.","director":"Ridley Scott","year":1979}`)

	req := httptest.NewRequest(http.MethodPost, "/movies", body)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()

	app.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, movies.insertCalls)
}

func TestRecoverPanic(t *testing.T) {
	app, _, users := newTestApplication(t, adminUser())

	users.getForTokenFunc = func(scope, plaintext string) (*data.User, error) {
		panic("boom")
	}

	req := httptest.NewRequest(http.MethodGet, "/movies", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()

	app.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "close", rec.Header().Get("Connection"))
}
