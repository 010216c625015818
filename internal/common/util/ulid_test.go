package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewULID_Monotonic(t *testing.T) {
	previous := NewULID()
	for i := 0; i < 100; i++ {
		next := NewULID()
		assert.Len(t, next, 26)
		assert.Greater(t, next, previous)
		previous = next
	}
}
