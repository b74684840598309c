package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Kind  string `json:"kind" validate:"required,oneof=photo video"`
	Order int    `json:"order" validate:"gte=0"`
	Skip  string `json:"-" validate:"required"`
}

func TestValidateCollectsFieldErrors(t *testing.T) {
	err := Validate(sample{Kind: "audio", Order: -1})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Error
	}
	assert.Equal(t, "this field is required", fields["name"])
	assert.Equal(t, "must be one of: photo video", fields["kind"])
	assert.Equal(t, "must be at least 0", fields["order"])
}

func TestValidatePasses(t *testing.T) {
	assert.NoError(t, Validate(sample{Name: "a", Kind: "photo", Skip: "x"}))
}

func TestIsValidationThroughWrap(t *testing.T) {
	err := fmt.Errorf("submit: %w", NewValidationError(errors.New("bad")))
	assert.True(t, IsValidation(err))
	assert.False(t, IsValidation(ErrNotFound))
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}

type ruled struct {
	Color string `json:"color" validate:"primary_color"`
}

func TestRegisterRuleMessage(t *testing.T) {
	RegisterRule("primary_color", "must be a primary color", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "red", "green", "blue":
			return true
		}
		return false
	})

	err := Validate(ruled{Color: "pink"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, FieldError{Field: "color", Error: "must be a primary color"}, verr.Fields[0])
	assert.NoError(t, Validate(ruled{Color: "red"}))
}
