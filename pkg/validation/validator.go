// Package validation wraps go-playground/validator so that failures come
// back as a map of JSON field name to message, ready for the response
// envelope's details.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a JSON field path (e.g. "questions[1].answer") to a message
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator validates structs using their `validate` tags
type Validator struct {
	validate *validator.Validate
}

var (
	instance *Validator
	once     sync.Once
)

// Get returns the shared validator
func Get() *Validator {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New builds a validator that reports JSON field names
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// RegisterCustom adds a custom tag
func (v *Validator) RegisterCustom(tag string, fn validator.Func) error {
	return v.validate.RegisterValidation(tag, fn)
}

// Struct validates s. It returns FieldErrors on rule violations.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		if _, exists := out[field]; !exists {
			out[field] = message(fe)
		}
	}
	return out
}

// Describe turns a bind/decode/validation error into envelope details
func Describe(err error) interface{} {
	var fields FieldErrors
	if errors.As(err, &fields) {
		return fields
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return map[string]string{"body": "request body is required"}
	case errors.As(err, &syntaxErr):
		return map[string]string{"body": "malformed JSON"}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return map[string]string{field: fmt.Sprintf("must be of type %s", typeErr.Type.String())}
	}
	return map[string]string{"body": "invalid request"}
}

// fieldPath drops the root struct name from a namespace
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	param := fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required", "required_without_all":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		return fmt.Sprintf("must contain at least %s items", param)
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", param)
		}
		return fmt.Sprintf("must contain at most %s items", param)
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(param, " ", ", "))
	case "uuid", "uuid4":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
