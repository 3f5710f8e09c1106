package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandBytes_Length(t *testing.T) {
	for _, n := range []int{0, 1, 16, 32} {
		b := RandBytes(n)
		require.Len(t, b, n)
	}
}

func TestRandBytes_NotRepeating(t *testing.T) {
	a := RandBytes(32)
	b := RandBytes(32)
	assert.NotEqual(t, a, b)
}
