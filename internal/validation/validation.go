// Package validation configures the shared request validator and the field-level
// error type returned by services.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"

	"github.com/s/learnhub/internal/models"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	notBlankTag     = "notblank"
	notBlankText    = "{0} cannot be blank"
	roleTag         = "role"
	roleText        = "{0} must be one of admin, instructor, student"
	attemptTypeTag  = "attempttype"
	attemptTypeText = "{0} must be one of pre_test, post_test, exercise"
)

func init() {
	Validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = Validate.RegisterValidation(roleTag, roleValidation)
	_ = Validate.RegisterValidation(attemptTypeTag, attemptTypeValidation)

	registerTranslation(notBlankTag, notBlankText)
	registerTranslation(roleTag, roleText)
	registerTranslation(attemptTypeTag, attemptTypeText)
}

func registerTranslation(tag, text string) {
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func roleValidation(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

func attemptTypeValidation(fl validator.FieldLevel) bool {
	return models.AttemptType(fl.Field().String()).Valid()
}

type FieldError struct {
	Field string
	Error string
}

// Error is returned by services when input is rejected. Handlers answer 400 with
// the field map.
type Error struct {
	Err    error
	Fields []FieldError
}

func NewError(err error, flds ...FieldError) error {
	return &Error{Err: err, Fields: flds}
}

func (err *Error) Error() string {
	if err.Err == nil {
		return "validation failed"
	}
	return err.Err.Error()
}

// Struct validates v and wraps any failure into *Error.
func Struct(v interface{}) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	flds := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		flds = append(flds, FieldError{Field: fieldPath(fe), Error: fe.Translate(Translator)})
	}
	return NewError(err, flds...)
}

// fieldPath drops the top-level struct name: "Request.questions[0].text" -> "questions[0].text".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// Fields returns the field map of a validation failure anywhere in err's chain.
func Fields(err error) (map[string]string, bool) {
	var verr *Error
	if !errors.As(err, &verr) {
		return nil, false
	}
	flds := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		flds[f.Field] = f.Error
	}
	if len(flds) == 0 {
		flds["error"] = verr.Error()
	}
	return flds, true
}
