package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/hafizmfadli/go-cinema/internal/data"
	"github.com/hafizmfadli/go-cinema/internal/storage"
	"github.com/hafizmfadli/go-cinema/internal/validator"
)

// maxImageBytes is the size ceiling for an uploaded movie image (2 MiB).
const maxImageBytes = 2 << 20

// uploadMovieImageHandler for the "POST /movies/:id/image" endpoint. The
// request carries a multipart form with a single "image" part, which must be
// a JPEG of at most 2 MiB. The content type is sniffed from the bytes, never
// trusted from the part header. The blob is fully written to storage before
// the movie row is pointed at it, so a reference never dangles; the replaced
// blob (if any) is removed once the new link commits.
func (app *application) uploadMovieImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	_, err = app.models.Movies.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// Cap the whole request body at the image ceiling plus a little headroom
	// for the multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+4096)

	file, header, err := r.FormFile("image")
	if err != nil {
		v := validator.New()
		v.AddError("image", "must be provided as a multipart form file")
		app.failedValidationResponse(w, r, v.Errors)
		return
	}
	defer file.Close()

	v := validator.New()

	v.Check(header.Size <= maxImageBytes, "image", fmt.Sprintf("must not be larger than %d bytes", maxImageBytes))

	// Sniff the real content type from the first 512 bytes.
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		app.serverErrorResponse(w, r, err)
		return
	}

	contentType := http.DetectContentType(buf[:n])
	v.Check(contentType == "image/jpeg", "image", "must be a JPEG image")

	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	key, err := app.images.NewKey(id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// Write-then-link: the blob must be durably stored before the movie row
	// references it.
	err = app.images.Save(key, file)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	oldPath, err := app.models.Movies.SetImagePath(id, key)
	if err != nil {
		// The link failed, so the freshly written blob must not stay behind.
		if removeErr := app.images.Remove(key); removeErr != nil {
			app.logError(r, removeErr)
		}

		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if oldPath != "" {
		if err := app.images.Remove(oldPath); err != nil {
			app.logError(r, err)
		}
	}

	env := envelope{
		"message":    "movie image successfully saved",
		"image_path": key,
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showMovieImageHandler for the "GET /movies/:id/image" endpoint. A missing
// movie, a movie without an attached image and a dangling reference all come
// back as 404, with messages telling the cases apart.
func (app *application) showMovieImageHandler(w http.ResponseWriter, r *http.Request) {
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

	if movie.ImagePath == nil {
		app.notFoundWithMessageResponse(w, r, "the movie does not have an associated image")
		return
	}

	blob, size, err := app.images.Open(*movie.ImagePath)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrBlobNotFound):
			app.notFoundWithMessageResponse(w, r, "the movie image was not found on the server")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))

	if _, err := io.Copy(w, blob); err != nil {
		app.logError(r, err)
	}
}
