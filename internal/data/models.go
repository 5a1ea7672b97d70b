package data

import (
	"database/sql"
	"errors"
	"time"
)

var (
	// ErrRecordNotFound is custom error. We'll return this from our Get() method
	// when looking up a record that doesn't exist in our database
	ErrRecordNotFound = errors.New("record not found")

	// ErrEditConflict is returned when a version-checked update loses the race
	// against a concurrent write
	ErrEditConflict = errors.New("edit conflict")

	// ErrDuplicateEmail is returned when an insert or update would violate the
	// unique constraint on the users email column
	ErrDuplicateEmail = errors.New("duplicate email")
)

// Models is 'container' which can hold and respresent all your database models
type Models struct {
	Movies interface {
		Insert(movie *Movie) error
		Get(id int64) (*Movie, error)
		GetAll(director, genre string, yearMin, yearMax int, filters Filters) ([]*Movie, Metadata, error)
		Search(title string) ([]*Movie, error)
		Update(movie *Movie) error
		SetImagePath(id int64, imagePath string) (string, error)
		Delete(id int64) (string, error)
	}
	Users interface {
		Insert(user *User) error
		Get(id int64) (*User, error)
		GetAll() ([]*User, error)
		GetByEmail(email string) (*User, error)
		GetForToken(tokenScope, tokenPlaintext string) (*User, error)
		Update(user *User) error
		Delete(id int64) error
	}
	Tokens interface {
		New(userID int64, ttl time.Duration, scope string) (*Token, error)
		Insert(token *Token) error
		DeleteAllForUser(scope string, userID int64) error
	}
}

// NewModels return a Models struct
func NewModels(db *sql.DB) Models {
	return Models{
		Movies: MovieModel{DB: db},
		Users:  UserModel{DB: db},
		Tokens: TokenModel{DB: db},
	}
}
