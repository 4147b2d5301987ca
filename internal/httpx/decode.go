package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"restaurant-pos/internal/apperr"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON reads a JSON body into dst, rejecting unknown fields, and runs
// the struct's validate tags.
func DecodeJSON(r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return apperr.Invalid("", "Content-Type must be application/json")
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("", "request body is empty")
		}
		return apperr.Invalid("", fmt.Sprintf("invalid JSON: %v", err))
	}

	return Validate(dst)
}

// Validate runs validate struct tags and reports the first failing field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Invalid("", err.Error())
	}

	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperr.Invalid(field, "is required")
	case "max":
		return apperr.Invalid(field, fmt.Sprintf("must be at most %s characters", fe.Param()))
	case "oneof":
		return apperr.Invalid(field, fmt.Sprintf("must be one of: %s", fe.Param()))
	case "email":
		return apperr.Invalid(field, "must be a valid email address")
	case "gt", "gte", "min":
		return apperr.Invalid(field, fmt.Sprintf("must be at least %s", fe.Param()))
	default:
		return apperr.Invalid(field, fmt.Sprintf("failed %s validation", fe.Tag()))
	}
}

// PathID parses a numeric route variable.
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid(name, "must be a positive integer")
	}
	return id, nil
}
