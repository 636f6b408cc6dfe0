// Package validation turns raw form submissions into typed, checked values.
//
// Decoding is done with gorilla/schema and field rules are expressed as
// go-playground/validator tags. Failures come back as FieldErrors, a map of
// form field name to the ordered messages for that field.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// FieldErrors maps a form field name to its error messages, in the order
// they were found.
type FieldErrors map[string][]string

// Add appends msg to field unless it is already listed.
func (fe FieldErrors) Add(field, msg string) {
	for _, m := range fe[field] {
		if m == msg {
			return
		}
	}
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

var (
	decoder  = newDecoder()
	validate = newValidate()
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	// id, date and anything else the browser posts are never accepted.
	d.IgnoreUnknownKeys(true)
	return d
}

// newValidate reports fields by their form name rather than the Go name.
func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("schema"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
