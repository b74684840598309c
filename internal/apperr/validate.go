package apperr

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	errInvalidInput = errors.New("invalid input")

	ruleMu       sync.RWMutex
	ruleMessages = map[string]string{}
)

// RegisterRule adds a custom validation tag with the message shown on failure.
func RegisterRule(tag, message string, fn validator.Func) {
	ruleMu.Lock()
	defer ruleMu.Unlock()
	if err := Validator().RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
	ruleMessages[tag] = message
}

// Validator returns the shared validator, using JSON tag names in field errors.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks s against its `validate` tags and converts failures into a *ValidationError.
func Validate(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	flds := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		flds = append(flds, FieldError{Field: fe.Field(), Error: describe(fe)})
	}
	return NewValidationError(errInvalidInput, flds...)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "datetime":
		return "must match the layout " + fe.Param()
	}
	ruleMu.RLock()
	defer ruleMu.RUnlock()
	if msg, ok := ruleMessages[fe.Tag()]; ok {
		return msg
	}
	return "failed " + fe.Tag() + " validation"
}
