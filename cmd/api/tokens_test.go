package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hafizmfadli/go-cinema/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func userWithPassword(t *testing.T, plaintext string) *data.User {
	t.Helper()

	user := &data.User{ID: 5, Name: "Alice", Email: "alice@example.com", Role: data.RoleRegular}
	require.NoError(t, user.Password.Set(plaintext))
	return user
}

func TestLogin(t *testing.T) {
	app, _, users := newTestApplication(t, nil)

	stored := userWithPassword(t, "pa55word123")
	users.getByEmailFunc = func(email string) (*data.User, error) {
		if email == stored.Email {
			return stored, nil
		}
		return nil, data.ErrRecordNotFound
	}

	rec := httptest.NewRecorder()
	app.routes().ServeHTTP(rec, loginRequest(`{"email":"alice@example.com","password":"pa55word123"}`))

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Len(t, response.Token, 26)
}

func TestLoginTokenValidatesToSameUser(t *testing.T) {
	app, _, users := newTestApplication(t, nil)

	stored := userWithPassword(t, "pa55word123")

	issued := make(map[string]*data.User)

	users.getByEmailFunc = func(email string) (*data.User, error) {
		if email == stored.Email {
			return stored, nil
		}
		return nil, data.ErrRecordNotFound
	}
	users.getForTokenFunc = func(scope, plaintext string) (*data.User, error) {
		if user, ok := issued[plaintext]; ok && scope == data.ScopeAuthentication {
			return user, nil
		}
		return nil, data.ErrRecordNotFound
	}

	rec := httptest.NewRecorder()
	app.routes().ServeHTTP(rec, loginRequest(`{"email":"alice@example.com","password":"pa55word123"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	issued[response.Token] = stored

	// The issued token must authenticate follow-up requests as the same user.
	req := httptest.NewRequest(http.MethodGet, "/movies", nil)
	req.Header.Set("Authorization", "Bearer "+response.Token)
	rec = httptest.NewRecorder()
	app.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginUniformFailure(t *testing.T) {
	app, _, users := newTestApplication(t, nil)

	stored := userWithPassword(t, "pa55word123")
	users.getByEmailFunc = func(email string) (*data.User, error) {
		if email == stored.Email {
			return stored, nil
		}
		return nil, data.ErrRecordNotFound
	}

	// Unknown email.
	recUnknown := httptest.NewRecorder()
	app.routes().ServeHTTP(recUnknown, loginRequest(`{"email":"nobody@example.com","password":"pa55word123"}`))

	// Known email, wrong password.
	recWrong := httptest.NewRecorder()
	app.routes().ServeHTTP(recWrong, loginRequest(`{"email":"alice@example.com","password":"wrongpassword"}`))

	assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	assert.Equal(t, http.StatusUnauthorized, recWrong.Code)

	// The two failures must be indistinguishable to the client.
	assert.Equal(t, recUnknown.Body.String(), recWrong.Body.String())
}

func TestLoginValidation(t *testing.T) {
	app, _, _ := newTestApplication(t, nil)

	rec := httptest.NewRecorder()
	app.routes().ServeHTTP(rec, loginRequest(`{"email":"not-an-email","password":""}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHealthcheck(t *testing.T) {
	app, _, _ := newTestApplication(t, nil)

	rec := httptest.NewRecorder()
	app.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "available")
}
