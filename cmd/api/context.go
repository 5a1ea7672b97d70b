package main

import (
	"context"
	"net/http"

	"github.com/hafizmfadli/go-cinema/internal/data"
)

// contextKey is a custom type to avoid collisions with context keys set by
// other packages.
type contextKey string

const userContextKey = contextKey("user")

// contextSetUser return a copy of the request with the authenticated user
// record stored in its context.
func (app *application) contextSetUser(r *http.Request, user *data.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// contextGetUser retrieve the authenticated user from the request context.
// It is only ever called downstream of the authenticate middleware, so a
// missing user is an unrecoverable programming error.
func (app *application) contextGetUser(r *http.Request) *data.User {
	user, ok := r.Context().Value(userContextKey).(*data.User)
	if !ok {
		panic("missing user value in request context")
	}
	return user
}
