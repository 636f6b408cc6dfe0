package validation

import (
	"net/url"

	"github.com/cockroachdb/errors"
)

// ErrInvalidCredentials is returned for any malformed login submission. It
// deliberately does not say which field failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

type credentialsForm struct {
	Email    string `schema:"email"    validate:"required,email"`
	Password string `schema:"password" validate:"min=6"`
}

// Credentials is a well-formed login submission.
type Credentials struct {
	Email    string
	Password string
}

// ParseCredentials checks that email looks like an address and the password
// is at least six characters long.
func ParseCredentials(values url.Values) (Credentials, error) {
	var form credentialsForm
	if err := decoder.Decode(&form, values); err != nil {
		return Credentials{}, ErrInvalidCredentials
	}
	if err := validate.Struct(form); err != nil {
		return Credentials{}, ErrInvalidCredentials
	}
	return Credentials{Email: form.Email, Password: form.Password}, nil
}
