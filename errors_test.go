package storefront_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	storefront "github.com/goliatone/go-storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelCategories(t *testing.T) {
	tests := []struct {
		name     string
		err      *goerrors.Error
		category any
		textCode string
	}{
		{"invalid credentials", storefront.ErrInvalidCredentials, goerrors.CategoryAuth, storefront.TextCodeInvalidCreds},
		{"empty password", storefront.ErrNoEmptyString, goerrors.CategoryValidation, storefront.TextCodeEmptyPassword},
		{"token expired", storefront.ErrTokenExpired, goerrors.CategoryAuth, storefront.TextCodeTokenExpired},
		{"token malformed", storefront.ErrTokenMalformed, goerrors.CategoryAuth, storefront.TextCodeTokenMalformed},
		{"too many attempts", storefront.ErrTooManyLoginAttempts, goerrors.CategoryRateLimit, storefront.TextCodeTooManyAttempts},
		{"email in use", storefront.ErrEmailInUse, goerrors.CategoryConflict, storefront.TextCodeEmailInUse},
		{"account inactive", storefront.ErrAccountInactive, goerrors.CategoryAuth, storefront.TextCodeAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.EqualValues(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.textCode, tt.err.TextCode)
		})
	}
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.True(t, storefront.IsTokenExpiredError(storefront.ErrTokenExpired))
	assert.False(t, storefront.IsTokenExpiredError(storefront.ErrTokenMalformed))
	assert.False(t, storefront.IsTokenExpiredError(nil))
	assert.False(t, storefront.IsTokenExpiredError(errors.New("something else")))
}

func TestIsMalformedError(t *testing.T) {
	assert.True(t, storefront.IsMalformedError(storefront.ErrTokenMalformed))
	assert.True(t, storefront.IsMalformedError(errors.New("missing or malformed JWT")))
	assert.False(t, storefront.IsMalformedError(storefront.ErrTokenExpired))
	assert.False(t, storefront.IsMalformedError(nil))
}
