package bind

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	perr "modelwatch/internal/platform/errors"

	"github.com/go-playground/validator/v10"
)

// ParseQuery maps URL query parameters onto T by `query` tags, runs the
// shared validator over the result, and maps failures to project errors.
// String, integer and bool fields cover the read-side filter surfaces;
// parameters without a matching tag are ignored. A value that does not
// parse carries the same validation code as one that parses but fails a
// rule, so every bad parameter answers the same way
func ParseQuery[T any](r *http.Request) (T, error) {
	var dst, zero T

	rv := reflect.ValueOf(&dst).Elem()
	rt := rv.Type()
	q := r.URL.Query()

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Tag.Get("query")
		if name == "" || name == "-" {
			continue
		}
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			continue
		}

		fv := rv.Field(i)
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(raw)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return zero, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s must be an integer", name), name)
			}
			fv.SetInt(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return zero, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s must be a boolean", name), name)
			}
			fv.SetBool(b)
		default:
			return zero, perr.Internalf("bind: unsupported query field kind %s", fv.Kind())
		}
	}

	if err := Get().Validator.Struct(dst); err != nil {
		if inv, ok := err.(*validator.InvalidValidationError); ok {
			return zero, perr.Internalf("validator internal error: %v", inv)
		}
		field, msg := ValidationFieldAndMessage(err)
		return zero, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
	}
	return dst, nil
}
