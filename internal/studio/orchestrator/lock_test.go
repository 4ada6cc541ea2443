package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLock(t *testing.T) {
	l := newKeyLock()

	assert.True(t, l.TryAcquire(designKey(1, 2)))
	assert.False(t, l.TryAcquire(designKey(1, 2)))
	assert.True(t, l.TryAcquire(designKey(2, 2)), "a newer batch uses its own key")

	l.Release(designKey(1, 2))
	l.Release(designKey(2, 2))
	assert.Zero(t, l.held())

	assert.True(t, l.TryAcquire(designKey(1, 2)))
	l.Release(designKey(1, 2))
}
