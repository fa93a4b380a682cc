package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOfUnwrapsChain(t *testing.T) {
	base := NotFound("conversation not found")
	wrapped := fmt.Errorf("handling request: %w", base)

	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
}

func TestCodeOfDefaultsToStoreFailure(t *testing.T) {
	assert.Equal(t, CodeStoreFailure, CodeOf(errors.New("driver exploded")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("unique constraint")
	err := Store("create conversation", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeStoreFailure, CodeOf(err))
	assert.Contains(t, err.Error(), "create conversation")
}
