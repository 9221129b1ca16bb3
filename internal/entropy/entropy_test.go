package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSeeded_Deterministic(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float(), b.Float())
	}
}

func TestNewSeeded_DifferentSeedsDiverge(t *testing.T) {
	a := NewSeeded(1)
	b := NewSeeded(2)
	assert.NotEqual(t, a.Float(), b.Float())
}

func TestNewClient_EmptyKeyReturnsNil(t *testing.T) {
	assert.Nil(t, NewClient(""))
}

func TestFloatFromSource_NilClientUsesFallback(t *testing.T) {
	v := FloatFromSource(nil)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}
