// Package validation runs the client-side form checks that happen before
// any request reaches the backend.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailPattern    = regexp.MustCompile(`\S+@\S+\.\S+`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	must(v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	must(v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return strings.Join(parts, "; ")
}

// messages is keyed by "<field>.<tag>".
type messages map[string]string

func check(form any, table messages) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}

	out := make(FieldErrors, len(invalid))
	for _, fe := range invalid {
		field, _, _ := strings.Cut(fe.Field(), "[")
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := table[field+"."+fe.Tag()]
		if !ok {
			msg = field + " is invalid"
		}
		out[field] = msg
	}
	return out
}

// AsFieldErrors extracts the per-field messages carried by err.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
