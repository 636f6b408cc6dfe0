package domain

import "github.com/cockroachdb/errors"

var ErrUserNotFound = errors.New("user not found")

// User is a dashboard account. Users are provisioned outside this service
// and only ever read here.
type User struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Email    string `json:"email" db:"email"`
	Password string `json:"-" db:"password"`
}

// Identity is the minimal view of a user handed out after a successful
// sign-in. It never carries the password hash.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
