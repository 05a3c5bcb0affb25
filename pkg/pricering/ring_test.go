package pricering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRingPanics(t *testing.T) {
	assert.Panics(t, func() { NewRing(0, 1000) })
	assert.Panics(t, func() { NewRing(10, 0) })
}

func TestReturnOverRequiresTwoPoints(t *testing.T) {
	r := NewRing(16, 60_000)
	_, ok := r.ReturnOver(60_000, 1_000)
	assert.False(t, ok)

	r.Append(100_000_000, 1_000)
	_, ok = r.ReturnOver(60_000, 1_000)
	assert.False(t, ok, "single point must not yield a return")
}

func TestReturnOverBasic(t *testing.T) {
	r := NewRing(16, 60_000)
	r.Append(100_000_000, 0)     // price 1.0 at t=0
	r.Append(110_000_000, 5_000) // price 1.1 at t=5s

	pct, ok := r.ReturnOver(60_000, 5_000)
	require.True(t, ok)
	assert.InDelta(t, 10.0, pct, 1e-9)
}

func TestReturnOverExcludesPointsOutsideWindow(t *testing.T) {
	r := NewRing(16, 60_000)
	r.Append(100_000_000, 0)          // way outside the window once now advances
	r.Append(200_000_000, 61_000)
	r.Append(210_000_000, 65_000)

	// Window is [65000-60000, 65000] = [5000, 65000]; point at t=0 is excluded.
	pct, ok := r.ReturnOver(60_000, 65_000)
	require.True(t, ok)
	assert.InDelta(t, 5.0, pct, 1e-9)
}

func TestAppendWrapsAndSaturatesCount(t *testing.T) {
	r := NewRing(4, 60_000)
	for i := uint64(0); i < 10; i++ {
		r.Append(100_000_000+i, i*1000)
	}
	assert.Equal(t, 4, r.Count())
	assert.Equal(t, 4, r.Capacity())
}

func TestCloneIsIndependent(t *testing.T) {
	r := NewRing(8, 60_000)
	r.Append(100_000_000, 0)

	clone := r.Clone()
	clone.Append(200_000_000, 1_000)

	assert.Equal(t, 1, r.Count())
	assert.Equal(t, 2, clone.Count())
}

func TestReturnOverSamePriceAndTimestampIsRejected(t *testing.T) {
	r := NewRing(8, 60_000)
	r.Append(100_000_000, 1_000)
	r.Append(100_000_000, 1_000) // duplicate point: no distinguishable oldest/newest

	_, ok := r.ReturnOver(60_000, 1_000)
	assert.False(t, ok)
}
