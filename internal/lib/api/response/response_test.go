package response

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type request struct {
	Email    string `validate:"required,email"`
	Quantity int    `validate:"gt=0"`
}

func TestValidationFailed(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected Response
	}{
		{
			name: "Field violations",
			err:  validator.New().Struct(request{Email: "ann"}),
			expected: Response{
				Status: StatusError,
				Error:  "field Email is not a valid email, field Quantity must be greater than 0",
			},
		},
		{
			name: "Invalid validation target",
			err:  validator.New().Struct(nil),
			expected: Response{
				Status: StatusError,
				Error:  "validator: (nil)",
			},
		},
		{
			name:     "Other error",
			err:      errors.New("unexpected"),
			expected: Response{Status: StatusError, Error: "unexpected"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ValidationFailed(tc.err)
			assert.Equal(t, tc.expected, got)
			assert.NotEmpty(t, got.Error)
		})
	}
}
