package main

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hafizmfadli/go-cinema/internal/data"
	"github.com/hafizmfadli/go-cinema/internal/jsonlog"
	"github.com/hafizmfadli/go-cinema/internal/storage"
	"github.com/stretchr/testify/require"
)

// testToken is a syntactically valid bearer token accepted by the
// authenticate middleware in tests.
var testToken = strings.Repeat("A", 26)

func adminUser() *data.User {
	return &data.User{ID: 1, Name: "Admin", Email: "admin@example.com", Role: data.RoleAdmin}
}

func regularUser() *data.User {
	return &data.User{ID: 2, Name: "Regular", Email: "regular@example.com", Role: data.RoleRegular}
}

// mockMovieModel implements the Movies model interface with overridable
// function fields, counting mutating calls so tests can assert a denied
// request never reached the repository.
type mockMovieModel struct {
	insertFunc       func(movie *data.Movie) error
	getFunc          func(id int64) (*data.Movie, error)
	getAllFunc       func(director, genre string, yearMin, yearMax int, filters data.Filters) ([]*data.Movie, data.Metadata, error)
	searchFunc       func(title string) ([]*data.Movie, error)
	updateFunc       func(movie *data.Movie) error
	setImagePathFunc func(id int64, imagePath string) (string, error)
	deleteFunc       func(id int64) (string, error)

	insertCalls       int
	updateCalls       int
	deleteCalls       int
	setImagePathCalls int
}

func (m *mockMovieModel) Insert(movie *data.Movie) error {
	m.insertCalls++
	if m.insertFunc != nil {
		return m.insertFunc(movie)
	}
	movie.ID = 1
	movie.Version = 1
	return nil
}

func (m *mockMovieModel) Get(id int64) (*data.Movie, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return nil, data.ErrRecordNotFound
}

func (m *mockMovieModel) GetAll(director, genre string, yearMin, yearMax int, filters data.Filters) ([]*data.Movie, data.Metadata, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(director, genre, yearMin, yearMax, filters)
	}
	return []*data.Movie{}, data.Metadata{}, nil
}

func (m *mockMovieModel) Search(title string) ([]*data.Movie, error) {
	if m.searchFunc != nil {
		return m.searchFunc(title)
	}
	return []*data.Movie{}, nil
}

func (m *mockMovieModel) Update(movie *data.Movie) error {
	m.updateCalls++
	if m.updateFunc != nil {
		return m.updateFunc(movie)
	}
	return nil
}

func (m *mockMovieModel) SetImagePath(id int64, imagePath string) (string, error) {
	m.setImagePathCalls++
	if m.setImagePathFunc != nil {
		return m.setImagePathFunc(id, imagePath)
	}
	return "", nil
}

func (m *mockMovieModel) Delete(id int64) (string, error) {
	m.deleteCalls++
	if m.deleteFunc != nil {
		return m.deleteFunc(id)
	}
	return "", data.ErrRecordNotFound
}

// mockUserModel implements the Users model interface.
type mockUserModel struct {
	insertFunc      func(user *data.User) error
	getFunc         func(id int64) (*data.User, error)
	getAllFunc      func() ([]*data.User, error)
	getByEmailFunc  func(email string) (*data.User, error)
	getForTokenFunc func(scope, plaintext string) (*data.User, error)
	updateFunc      func(user *data.User) error
	deleteFunc      func(id int64) error

	insertCalls int
	updateCalls int
	deleteCalls int
}

func (m *mockUserModel) Insert(user *data.User) error {
	m.insertCalls++
	if m.insertFunc != nil {
		return m.insertFunc(user)
	}
	user.ID = 1
	user.Version = 1
	return nil
}

func (m *mockUserModel) Get(id int64) (*data.User, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return nil, data.ErrRecordNotFound
}

func (m *mockUserModel) GetAll() ([]*data.User, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc()
	}
	return []*data.User{}, nil
}

func (m *mockUserModel) GetByEmail(email string) (*data.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(email)
	}
	return nil, data.ErrRecordNotFound
}

func (m *mockUserModel) GetForToken(scope, plaintext string) (*data.User, error) {
	if m.getForTokenFunc != nil {
		return m.getForTokenFunc(scope, plaintext)
	}
	return nil, data.ErrRecordNotFound
}

func (m *mockUserModel) Update(user *data.User) error {
	m.updateCalls++
	if m.updateFunc != nil {
		return m.updateFunc(user)
	}
	return nil
}

func (m *mockUserModel) Delete(id int64) error {
	m.deleteCalls++
	if m.deleteFunc != nil {
		return m.deleteFunc(id)
	}
	return data.ErrRecordNotFound
}

// mockTokenModel implements the Tokens model interface.
type mockTokenModel struct {
	newFunc func(userID int64, ttl time.Duration, scope string) (*data.Token, error)

	deleteAllCalls int
}

func (m *mockTokenModel) New(userID int64, ttl time.Duration, scope string) (*data.Token, error) {
	if m.newFunc != nil {
		return m.newFunc(userID, ttl, scope)
	}
	return &data.Token{
		Plaintext: testToken,
		UserID:    userID,
		Expiry:    time.Now().Add(ttl),
		Scope:     scope,
	}, nil
}

func (m *mockTokenModel) Insert(token *data.Token) error { return nil }

func (m *mockTokenModel) DeleteAllForUser(scope string, userID int64) error {
	m.deleteAllCalls++
	return nil
}

// newTestApplication build an application wired to mock models, a throwaway
// image store and a discarded log stream. The rate limiter stays disabled so
// tests can issue requests back to back.
func newTestApplication(t *testing.T, user *data.User) (*application, *mockMovieModel, *mockUserModel) {
	t.Helper()

	images, err := storage.NewImageStore(t.TempDir())
	require.NoError(t, err)

	movies := &mockMovieModel{}
	users := &mockUserModel{}

	if user != nil {
		users.getForTokenFunc = func(scope, plaintext string) (*data.User, error) {
			if scope == data.ScopeAuthentication && plaintext == testToken {
				return user, nil
			}
			return nil, data.ErrRecordNotFound
		}
	}

	app := &application{
		config: config{env: "testing"},
		logger: jsonlog.NewLogger(io.Discard, jsonlog.LevelOff),
		images: images,
		models: data.Models{
			Movies: movies,
			Users:  users,
			Tokens: &mockTokenModel{},
		},
	}

	return app, movies, users
}
