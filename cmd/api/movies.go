package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hafizmfadli/go-cinema/internal/data"
	"github.com/hafizmfadli/go-cinema/internal/validator"
	"github.com/julienschmidt/httprouter"
)

// createMovieHandler for the "POST /movies" endpoint.
func (app *application) createMovieHandler(w http.ResponseWriter, r *http.Request) {
	// anonymous struct to hold information that we expect to be in the HTTP request body.
	var input struct {
		Title       string `json:"title"`
		Genre       string `json:"genre"`
		Description string `json:"description"`
		Director    string `json:"director"`
		Year        int32  `json:"year"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie := &data.Movie{
		Title:       input.Title,
		Genre:       input.Genre,
		Description: input.Description,
		Director:    input.Director,
		Year:        input.Year,
	}

	v := validator.New()

	if data.ValidateMovie(v, movie); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Movies.Insert(movie)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// Let the client know where they can find the newly-created resource.
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/movies/%d", movie.ID))

	env := envelope{
		"message": "movie successfully created",
		"movie":   movie,
	}

	err = app.writeJSON(w, http.StatusCreated, env, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showMovieHandler for the "GET /movies/:id" endpoint. The same URL position
// is also used by the original API for title searches of the literal form
// "GET /movies/query=<string>", so requests whose :id segment carries the
// query= prefix are dispatched to the search handler instead.
func (app *application) showMovieHandler(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())

	if segment := params.ByName("id"); strings.HasPrefix(segment, "query=") {
		app.searchMoviesHandler(w, r, strings.TrimPrefix(segment, "query="))
		return
	}

	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	movie, err := app.models.Movies.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"movie": movie}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listMoviesHandler for the "GET /movies" endpoint. Recognized query keys are
// director and genre (exact match) and year_min/year_max (inclusive bounds),
// combined with AND; anything else in the query string is ignored. Results
// come back a fixed 10 per page with pagination metadata.
func (app *application) listMoviesHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Director string
		Genre    string
		YearMin  int
		YearMax  int
		data.Filters
	}

	v := validator.New()

	qs := r.URL.Query()

	input.Director = app.readString(qs, "director", "")
	input.Genre = app.readString(qs, "genre", "")
	input.YearMin = app.readInt(qs, "year_min", 0, v)
	input.YearMax = app.readInt(qs, "year_max", 0, v)

	input.Filters.Page = app.readInt(qs, "page", 1, v)
	input.Filters.PageSize = 10
	input.Filters.Sort = "id"
	input.Filters.SortSafelist = []string{"id"}

	if data.ValidateFilters(v, input.Filters); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	movies, metadata, err := app.models.Movies.GetAll(input.Director, input.Genre, input.YearMin, input.YearMax, input.Filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"movies": movies, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// searchMoviesHandler serves the "GET /movies/query=<string>" form: a
// case-insensitive substring match on title, unpaginated, ordered by id.
func (app *application) searchMoviesHandler(w http.ResponseWriter, r *http.Request, search string) {
	movies, err := app.models.Movies.Search(search)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"movies": movies}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateMovieHandler for the "PUT /movies/:id" endpoint. Full-replacement
// semantics: every field must be supplied, even ones that didn't change.
func (app *application) updateMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	movie, err := app.models.Movies.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var input struct {
		Title       string `json:"title"`
		Genre       string `json:"genre"`
		Description string `json:"description"`
		Director    string `json:"director"`
		Year        int32  `json:"year"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie.Title = input.Title
	movie.Genre = input.Genre
	movie.Description = input.Description
	movie.Director = input.Director
	movie.Year = input.Year

	v := validator.New()

	if data.ValidateMovie(v, movie); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Movies.Update(movie)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"movie": movie}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// partialUpdateMovieHandler for the "PATCH /movies/:id" endpoint. Pointer
// fields let us tell apart "field absent" from "field set to the zero value":
// only the fields present in the body are applied, everything else keeps its
// stored value.
func (app *application) partialUpdateMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	movie, err := app.models.Movies.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var input struct {
		Title       *string `json:"title"`
		Genre       *string `json:"genre"`
		Description *string `json:"description"`
		Director    *string `json:"director"`
		Year        *int32  `json:"year"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if input.Title != nil {
		movie.Title = *input.Title
	}
	if input.Genre != nil {
		movie.Genre = *input.Genre
	}
	if input.Description != nil {
		movie.Description = *input.Description
	}
	if input.Director != nil {
		movie.Director = *input.Director
	}
	if input.Year != nil {
		movie.Year = *input.Year
	}

	v := validator.New()

	if data.ValidateMovie(v, movie); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Movies.Update(movie)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"movie": movie}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteMovieHandler for the "DELETE /movies/:id" endpoint. The attached
// image blob, if any, is removed after the row delete commits; a failed
// unlink is logged but never fails the request, since the database row is
// the source of truth.
func (app *application) deleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	imagePath, err := app.models.Movies.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if imagePath != "" {
		if err := app.images.Remove(imagePath); err != nil {
			app.logError(r, err)
		}
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "movie successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
