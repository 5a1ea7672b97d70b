package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hafizmfadli/go-cinema/internal/validator"
)

type Movie struct {
	// Unique ID
	ID int64 `json:"id"`
	// Timestamp for when the movie is added to our database
	CreatedAt time.Time `json:"-"`
	// Movie title
	Title string `json:"title"`
	// Movie genre (drama, comedy, etc.)
	Genre string `json:"genre"`
	// Free-text synopsis
	Description string `json:"description"`
	// Movie director
	Director string `json:"director"`
	// Movie release year
	Year int32 `json:"year"`
	// Storage key of the attached image, if any. Only ever written through
	// the image upload endpoint, never through a general movie update.
	ImagePath *string `json:"image_path"`
	// Version number starts at 1 and will be incremented each time the movie is updated
	Version int32 `json:"version"`
}

// ValidateMovie validate movie value to conform business rules.
// For each invalid movie value will be added as an error to v with
// corresponding key and appropriate message.
func ValidateMovie(v *validator.Validator, movie *Movie) {
	v.Check(movie.Title != "", "title", "must be provided")
	v.Check(len(movie.Title) <= 255, "title", "must not be more than 255 bytes long")

	v.Check(movie.Genre != "", "genre", "must be provided")
	v.Check(len(movie.Genre) <= 255, "genre", "must not be more than 255 bytes long")

	v.Check(movie.Description != "", "description", "must be provided")

	v.Check(movie.Director != "", "director", "must be provided")
	v.Check(len(movie.Director) <= 255, "director", "must not be more than 255 bytes long")

	v.Check(movie.Year != 0, "year", "must be provided")
	v.Check(movie.Year >= 1888, "year", "must be greater than 1888")
	v.Check(movie.Year <= int32(time.Now().Year()), "year", "must not be in the future")
}

// MovieModel wraps a sql.DB connection pool and implements the movie
// repository operations against PostgreSQL.
type MovieModel struct {
	DB *sql.DB
}

// Insert a new record in the movies table.
func (m MovieModel) Insert(movie *Movie) error {
	query := `
		INSERT INTO movies (title, genre, description, director, year)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version`

	args := []interface{}{movie.Title, movie.Genre, movie.Description, movie.Director, movie.Year}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return m.DB.QueryRowContext(ctx, query, args...).Scan(&movie.ID, &movie.CreatedAt, &movie.Version)
}

// Get fetch a specific record from the movies table by its id.
func (m MovieModel) Get(id int64) (*Movie, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT id, created_at, title, genre, description, director, year, image_path, version
		FROM movies
		WHERE id = $1`

	var movie Movie

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.DB.QueryRowContext(ctx, query, id).Scan(
		&movie.ID,
		&movie.CreatedAt,
		&movie.Title,
		&movie.Genre,
		&movie.Description,
		&movie.Director,
		&movie.Year,
		&movie.ImagePath,
		&movie.Version,
	)

	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &movie, nil
}

// GetAll return a paginated list of movies matching the provided filters.
// Empty director/genre and zero year bounds act as wildcards, so the
// combination is a logical AND of only the filters the client supplied.
func (m MovieModel) GetAll(director, genre string, yearMin, yearMax int, filters Filters) ([]*Movie, Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), id, created_at, title, genre, description, director, year, image_path, version
		FROM movies
		WHERE (director = $1 OR $1 = '')
		AND (genre = $2 OR $2 = '')
		AND (year >= $3 OR $3 = 0)
		AND (year <= $4 OR $4 = 0)
		ORDER BY %s %s, id ASC
		LIMIT $5 OFFSET $6`, filters.sortColumn(), filters.sortDirection())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	args := []interface{}{director, genre, yearMin, yearMax, filters.limit(), filters.offset()}

	rows, err := m.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	movies := []*Movie{}

	for rows.Next() {
		var movie Movie

		err := rows.Scan(
			&totalRecords,
			&movie.ID,
			&movie.CreatedAt,
			&movie.Title,
			&movie.Genre,
			&movie.Description,
			&movie.Director,
			&movie.Year,
			&movie.ImagePath,
			&movie.Version,
		)
		if err != nil {
			return nil, Metadata{}, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	metadata := calculateMetadata(totalRecords, filters.Page, filters.PageSize)

	return movies, metadata, nil
}

// Search return every movie whose title contains the given string,
// case-insensitive, ordered by id for a deterministic result.
func (m MovieModel) Search(title string) ([]*Movie, error) {
	query := `
		SELECT id, created_at, title, genre, description, director, year, image_path, version
		FROM movies
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY id ASC`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query, title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []*Movie{}

	for rows.Next() {
		var movie Movie

		err := rows.Scan(
			&movie.ID,
			&movie.CreatedAt,
			&movie.Title,
			&movie.Genre,
			&movie.Description,
			&movie.Director,
			&movie.Year,
			&movie.ImagePath,
			&movie.Version,
		)
		if err != nil {
			return nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

// Update a specific record in the movies table. The update is conditional on
// the version in the struct still matching the row, so a lost race surfaces
// as ErrEditConflict instead of silently overwriting a concurrent write.
// Note that image_path is deliberately not touched here.
func (m MovieModel) Update(movie *Movie) error {
	query := `
		UPDATE movies
		SET title = $1, genre = $2, description = $3, director = $4, year = $5, version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version`

	args := []interface{}{
		movie.Title,
		movie.Genre,
		movie.Description,
		movie.Director,
		movie.Year,
		movie.ID,
		movie.Version,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.DB.QueryRowContext(ctx, query, args...).Scan(&movie.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}

	return nil
}

// SetImagePath point the movie's image_path at a newly stored blob and
// return the previous path (empty string if the movie had no image) so the
// caller can clean up the replaced blob. The read and write happen in one
// transaction so two concurrent uploads can't both think they replaced the
// same old blob.
func (m MovieModel) SetImagePath(id int64, imagePath string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var oldPath sql.NullString

	err = tx.QueryRowContext(ctx, `SELECT image_path FROM movies WHERE id = $1 FOR UPDATE`, id).Scan(&oldPath)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return "", ErrRecordNotFound
		default:
			return "", err
		}
	}

	_, err = tx.ExecContext(ctx, `UPDATE movies SET image_path = $1, version = version + 1 WHERE id = $2`, imagePath, id)
	if err != nil {
		return "", err
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}

	return oldPath.String, nil
}

// Delete a specific record from the movies table. The image_path of the
// deleted row is returned so the caller can remove the orphaned blob.
func (m MovieModel) Delete(id int64) (string, error) {
	if id < 1 {
		return "", ErrRecordNotFound
	}

	query := `
		DELETE FROM movies
		WHERE id = $1
		RETURNING image_path`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var imagePath sql.NullString

	err := m.DB.QueryRowContext(ctx, query, id).Scan(&imagePath)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return "", ErrRecordNotFound
		default:
			return "", err
		}
	}

	return imagePath.String, nil
}
