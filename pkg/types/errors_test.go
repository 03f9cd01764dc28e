package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"provider unavailable", fmt.Errorf("dial: %w", ErrProviderUnavailable), ErrorKindProviderUnavailable},
		{"user rejected", fmt.Errorf("personal_sign: %w", ErrUserRejected), ErrorKindUserRejected},
		{"anything else", errors.New("execution reverted"), ErrorKindCallFailure},
		{"keeps inner kind", NewActionError(ErrorKindValidationFailure, "inner", nil), ErrorKindValidationFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actionErr := ClassifyError("op", tt.err)
			require.NotNil(t, actionErr)
			assert.Equal(t, tt.want, actionErr.Kind)
			assert.Equal(t, tt.want, KindOf(actionErr))
			assert.ErrorIs(t, actionErr, tt.err)
		})
	}

	assert.Nil(t, ClassifyError("op", nil))
}

func Test_ActionErrorMessage(t *testing.T) {
	err := NewActionError(ErrorKindValidationFailure, "submit", errors.New("no input"))
	assert.Equal(t, "submit: ValidationFailure: no input", err.Error())

	bare := NewActionError(ErrorKindCallFailure, "status", nil)
	assert.Equal(t, "status: CallFailure", bare.Error())

	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}
