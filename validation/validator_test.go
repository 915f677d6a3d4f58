package validation

import (
	"testing"

	"github.com/rpupo63/quickdialer/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactBody struct {
	Name    string   `json:"name" validate:"required,min=2"`
	Contact string   `json:"contact" validate:"required,min=2"`
	Tags    []string `json:"tags" validate:"required,min=1"`
}

type tagBody struct {
	Slug  string  `json:"slug" validate:"required,min=2"`
	Color *string `json:"color" validate:"required"`
}

func TestValidator_Validate(t *testing.T) {
	v := New()

	t.Run("valid", func(t *testing.T) {
		err := v.Validate(contactBody{Name: "Ana", Contact: "+551199999999", Tags: []string{"familia"}})
		assert.NoError(t, err)
	})

	t.Run("uses json names", func(t *testing.T) {
		err := v.Validate(contactBody{Name: "A", Contact: "+55", Tags: []string{"familia"}})
		require.Error(t, err)

		apiErr, ok := err.(*errs.ApiErr)
		require.True(t, ok)
		assert.Equal(t, "name", apiErr.Field)
		assert.Equal(t, "name must be at least 2 characters", apiErr.Details)
		assert.Equal(t, errs.MissingPropertiesMessage, apiErr.Message())
		assert.True(t, errs.IsValidationError(err))
	})

	t.Run("empty tags", func(t *testing.T) {
		err := v.Validate(contactBody{Name: "Ana", Contact: "123", Tags: []string{}})
		require.Error(t, err)
		apiErr := err.(*errs.ApiErr)
		assert.Equal(t, "tags must contain at least 1 item(s)", apiErr.Details)
	})

	t.Run("missing tags", func(t *testing.T) {
		err := v.Validate(contactBody{Name: "Ana", Contact: "123"})
		require.Error(t, err)
		assert.Equal(t, "tags is required", err.(*errs.ApiErr).Details)
	})

	t.Run("empty color is present", func(t *testing.T) {
		empty := ""
		assert.NoError(t, v.Validate(tagBody{Slug: "familia", Color: &empty}))
	})

	t.Run("missing color", func(t *testing.T) {
		err := v.Validate(tagBody{Slug: "familia"})
		require.Error(t, err)
		apiErr := err.(*errs.ApiErr)
		assert.Equal(t, "color", apiErr.Field)
		assert.Equal(t, "color is required", apiErr.Details)
	})

	t.Run("several fields", func(t *testing.T) {
		err := v.Validate(contactBody{})
		require.Error(t, err)
		apiErr := err.(*errs.ApiErr)
		assert.Empty(t, apiErr.Field)
		assert.Equal(t, "contact is required; name is required; tags is required", apiErr.Details)
	})
}
