package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringArg(t *testing.T) {
	args := []interface{}{"42", float64(7), nil}

	v, ok := stringArg(args, 0)
	assert.True(t, ok)
	assert.Equal(t, "42", v)

	// Non-string and nil arguments report absent instead of panicking.
	_, ok = stringArg(args, 1)
	assert.False(t, ok)
	_, ok = stringArg(args, 2)
	assert.False(t, ok)

	_, ok = stringArg(args, 3)
	assert.False(t, ok)
	_, ok = stringArg(nil, 0)
	assert.False(t, ok)
}
