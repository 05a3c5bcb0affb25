package tick

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAndPrice(t *testing.T) {
	tk := New(7, 12_345_000_000, 1_700_000_000_000)
	assert.Equal(t, uint32(7), tk.SymbolID)
	assert.InDelta(t, 123.45, tk.Price(), 1e-9)
}

func TestValid(t *testing.T) {
	tk := New(3, 1, 1)
	assert.True(t, tk.Valid(10))
	assert.False(t, tk.Valid(3))
	assert.False(t, tk.Valid(0))
}
