// Package bind decodes and validates the read API's query filters. One
// process-wide validator carries english translations, json field names
// and the custom tags the filter DTOs use
package bind

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldLevel aliases validator.FieldLevel so custom tags register without
// importing the validator module directly
type FieldLevel = validator.FieldLevel

// ValidatorSvc bundles the validator with its message translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *ValidatorSvc
)

// Init builds the process validator: english messages, json tag names in
// errors, and the domain tags. First caller wins, later calls are no-ops
func Init() *ValidatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		trans, _ := ut.New(enLoc, enLoc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonTagName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		// tighter phrasing for the bounds tags the filter DTOs lean on
		shortMessage(v, trans, "min", "{0} must be at least {1}")
		shortMessage(v, trans, "max", "{0} must be at most {1}")

		registerSlug(v, trans)

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

// Get returns the validator singleton, initializing on first use
func Get() *ValidatorSvc { return Init() }

// RegisterValidation adds a caller-owned tag to the shared validator
func RegisterValidation(tag string, fn validator.Func) error {
	return Get().Validator.RegisterValidation(tag, fn)
}

// ValidationFieldAndMessage flattens a validator error to the first failed
// field and its translated message, the shape the error envelope carries
func ValidationFieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}

	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		return "", inv.Error()
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			return fe.Field(), fe.Translate(Get().Translator)
		}
	}
	return "", err.Error()
}

// jsonTagName puts the json name in messages so API clients see the
// parameter they actually sent, not the Go field
func jsonTagName(fld reflect.StructField) string {
	tag := fld.Tag.Get("json")
	if tag == "" || tag == "-" {
		return fld.Name
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	return tag
}

// shortMessage swaps the stock translation for tag with template, {0}
// being the field name and {1} the tag parameter
func shortMessage(v *validator.Validate, trans ut.Translator, tag, template string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, template, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// registerSlug wires the slug tag end to end. Source names travel as
// lowercase slugs, so filters can reject shapes the source registry could
// never contain before any lookup runs
func registerSlug(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return false
		}
		for _, r := range s {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			default:
				return false
			}
		}
		return true
	})
	shortMessage(v, trans, "slug", "{0} must be a lowercase slug")
}
