package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// routes assembles the router and the middleware chain. Read routes require
// a valid token; every mutating movie/user route additionally requires the
// admin role. The image endpoints are open to any authenticated user.
func (app *application) routes() http.Handler {
	router := httprouter.New()

	// Custom error handlers so unroutable requests still produce our JSON
	// error envelope.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthcheckHandler)

	router.HandlerFunc(http.MethodPost, "/login", app.loginHandler)

	router.HandlerFunc(http.MethodGet, "/movies", app.authenticate(app.listMoviesHandler))
	// The :id segment also carries title searches of the literal form
	// "query=<string>"; showMovieHandler dispatches between the two.
	router.HandlerFunc(http.MethodGet, "/movies/:id", app.authenticate(app.showMovieHandler))
	router.HandlerFunc(http.MethodPost, "/movies", app.requireAdmin(app.createMovieHandler))
	router.HandlerFunc(http.MethodPut, "/movies/:id", app.requireAdmin(app.updateMovieHandler))
	router.HandlerFunc(http.MethodPatch, "/movies/:id", app.requireAdmin(app.partialUpdateMovieHandler))
	router.HandlerFunc(http.MethodDelete, "/movies/:id", app.requireAdmin(app.deleteMovieHandler))

	router.HandlerFunc(http.MethodPost, "/movies/:id/image", app.authenticate(app.uploadMovieImageHandler))
	router.HandlerFunc(http.MethodGet, "/movies/:id/image", app.authenticate(app.showMovieImageHandler))

	router.HandlerFunc(http.MethodGet, "/users", app.requireAdmin(app.listUsersHandler))
	router.HandlerFunc(http.MethodPost, "/users", app.requireAdmin(app.createUserHandler))
	router.HandlerFunc(http.MethodGet, "/users/:id", app.requireAdmin(app.showUserHandler))
	router.HandlerFunc(http.MethodPut, "/users/:id", app.requireAdmin(app.updateUserHandler))
	router.HandlerFunc(http.MethodDelete, "/users/:id", app.requireAdmin(app.deleteUserHandler))

	return app.recoverPanic(app.rateLimitIP(router))
}
