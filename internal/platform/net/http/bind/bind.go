// Package bind decodes and validates JSON request bodies
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"unicode"

	perr "moodmeter/internal/platform/errors"
	"moodmeter/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ValidatorSvc holds a singleton validator and translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce    sync.Once
	vSvc     *ValidatorSvc
	jsonMore = func(dec *json.Decoder) bool { return dec.More() } // seam
)

// Get returns the validator singleton with english messages and json field names
func Get() *ValidatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		trans, _ := ut.New(enLoc, enLoc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		short(v, trans, "min", "{0} must be at least {1}", true)
		short(v, trans, "max", "{0} must be at most {1}", true)

		_ = v.RegisterValidation("notblank", notBlank)
		short(v, trans, "notblank", "{0} must contain non-whitespace text", false)

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

func jsonFieldName(fld reflect.StructField) string {
	tag := fld.Tag.Get("json")
	if tag == "-" || tag == "" {
		return fld.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// notBlank passes strings with at least one non-space rune, other kinds pass
func notBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return true
	}
	return strings.IndexFunc(f.String(), func(r rune) bool { return !unicode.IsSpace(r) }) >= 0
}

// JSONOptions controls parsing behavior
type JSONOptions struct {
	MaxBytes        int64 // default 1MB
	DisallowUnknown bool  // default true
}

func defaultJSONOptions() JSONOptions {
	return JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true}
}

// ParseJSON decodes JSON into T, validates it, and maps failures to project errors
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := defaultJSONOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close request body")
		}
	}()

	// peek one byte so an empty body gets a precise message
	buf := make([]byte, 1)
	n, _ := r.Body.Read(buf)
	if n == 0 {
		return zero, perr.JSONErrf("empty body")
	}
	var reader io.Reader = io.MultiReader(bytes.NewReader(buf[:n]), r.Body)
	if o.MaxBytes > 0 {
		reader = io.LimitReader(reader, o.MaxBytes)
	}

	dec := json.NewDecoder(reader)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}

	var dst T
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if jsonMore(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := Get().Validator.Struct(dst); err != nil {
		var inv *validator.InvalidValidationError
		if errors.As(err, &inv) {
			logger.Get().Error().Err(inv).Msg("validator internal error")
			return zero, perr.JSONErrf("validation error")
		}
		field, msg := ValidationFieldAndMessage(err)
		return zero, perr.FieldErrf(field, "%s", msg)
	}
	return dst, nil
}

// ValidationFieldAndMessage returns the first field and translated message
func ValidationFieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	return "", err.Error()
}

func short(v *validator.Validate, trans ut.Translator, tag, text string, withParam bool) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			var msg string
			if withParam {
				msg, _ = t.T(tag, fe.Field(), fe.Param())
			} else {
				msg, _ = t.T(tag, fe.Field())
			}
			return msg
		},
	)
}
