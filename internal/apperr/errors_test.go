package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicatesMatchOwnKindOnly(t *testing.T) {
	validation := Validation("amount", "amount must be positive")
	permission := Permission("owner only")
	notFound := NotFound("account")
	conflict := Conflict("membership already exists")

	assert.True(t, IsValidation(validation))
	assert.True(t, IsPermission(permission))
	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsConflict(conflict))

	assert.False(t, IsValidation(permission))
	assert.False(t, IsPermission(notFound))
	assert.False(t, IsNotFound(conflict))
	assert.False(t, IsConflict(validation))

	assert.False(t, IsValidation(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestPredicatesUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("loading account: %w", NotFound("account"))

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "amount: amount must be positive", Validation("amount", "amount must be positive").Error())
	assert.Equal(t, "account not found", NotFound("account").Error())
}
