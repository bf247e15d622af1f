package validation_test

import (
	"testing"

	"go-candidate-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagItem struct {
	Name string `json:"name" validate:"required"`
}

type storeRequest struct {
	Email     string    `json:"email" validate:"required,email"`
	FirstName string    `json:"first_name" validate:"required"`
	Dob       *string   `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Skills    []tagItem `json:"skills" validate:"omitempty,dive"`
}

func TestFieldErrorsTopLevel(t *testing.T) {
	v := validator.New()
	err := v.Struct(storeRequest{Email: "not-an-email"})
	require.Error(t, err)

	fields := validation.FieldErrors(err)

	assert.Contains(t, fields, "email")
	assert.Contains(t, fields["email"][0], "valid email address")
	assert.Contains(t, fields, "first_name")
	assert.Equal(t, "The first_name field is required.", fields["first_name"][0])
}

func TestFieldErrorsNestedArray(t *testing.T) {
	v := validator.New()
	err := v.Struct(storeRequest{
		Email:     "a@b.com",
		FirstName: "Jane",
		Skills:    []tagItem{{Name: "Go"}, {Name: ""}},
	})
	require.Error(t, err)

	fields := validation.FieldErrors(err)

	require.Contains(t, fields, "skills.1.name")
	assert.Equal(t, "The skills.1.name field is required.", fields["skills.1.name"][0])
	assert.NotContains(t, fields, "skills.0.name")
}

func TestFieldErrorsDateFormat(t *testing.T) {
	v := validator.New()
	bad := "29-08-2026"
	err := v.Struct(storeRequest{Email: "a@b.com", FirstName: "Jane", Dob: &bad})
	require.Error(t, err)

	fields := validation.FieldErrors(err)

	require.Contains(t, fields, "dob")
	assert.Contains(t, fields["dob"][0], "does not match the format")
}

func TestFieldErrorsNonValidatorError(t *testing.T) {
	fields := validation.FieldErrors(assert.AnError)
	require.Contains(t, fields, "payload")
}
