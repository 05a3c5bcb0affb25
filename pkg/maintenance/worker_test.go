package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/pricering"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/tick"
)

func newTestCells(n int) []*pricering.Cell {
	cells := make([]*pricering.Cell, n)
	for i := range cells {
		cells[i] = pricering.NewCell(16, 60_000)
	}
	return cells
}

func TestApplyAppendsToTargetCellOnly(t *testing.T) {
	cells := newTestCells(3)
	w := New(Config{Cells: cells, RecomputeEveryN: 1})

	w.apply(tick.New(1, 100_00000000, 0))

	assert.Equal(t, 1, cells[1].Load().Ring.Count())
	assert.Equal(t, 0, cells[0].Load().Ring.Count())
	assert.Equal(t, 0, cells[2].Load().Ring.Count())
}

func TestApplyIgnoresOutOfRangeSymbol(t *testing.T) {
	cells := newTestCells(2)
	w := New(Config{Cells: cells, RecomputeEveryN: 1})

	w.apply(tick.New(99, 100_00000000, 0))
	assert.Equal(t, 0, cells[0].Load().Ring.Count())
	assert.Equal(t, 0, cells[1].Load().Ring.Count())
}

func TestApplyRecomputesEveryNTicks(t *testing.T) {
	cells := newTestCells(1)
	w := New(Config{Cells: cells, RecomputeEveryN: 3})

	w.apply(tick.New(0, 100_00000000, 0))
	w.apply(tick.New(0, 101_00000000, 1))
	assert.Zero(t, cells[0].Load().Aggregates.Avg15m, "aggregates not recomputed until the 3rd tick")

	w.apply(tick.New(0, 102_00000000, 2))
	assert.NotZero(t, cells[0].Load().Aggregates.Avg15m)
}

func TestShardedWorkersPartitionDisjointRanges(t *testing.T) {
	cells := newTestCells(4)
	lo := New(Config{Cells: cells, RecomputeEveryN: 1, RangeLo: 0, RangeHi: 2})
	hi := New(Config{Cells: cells, RecomputeEveryN: 1, RangeLo: 2, RangeHi: 4})

	lo.apply(tick.New(0, 100_00000000, 0))
	lo.apply(tick.New(3, 100_00000000, 0)) // out of lo's range, ignored
	hi.apply(tick.New(3, 100_00000000, 0))
	hi.apply(tick.New(0, 100_00000000, 0)) // out of hi's range, ignored

	assert.Equal(t, 1, cells[0].Load().Ring.Count())
	assert.Equal(t, 0, cells[1].Load().Ring.Count())
	assert.Equal(t, 0, cells[2].Load().Ring.Count())
	assert.Equal(t, 1, cells[3].Load().Ring.Count())
}

func TestNewDefaultsRangeHiToAllCellsWhenUnset(t *testing.T) {
	cells := newTestCells(5)
	w := New(Config{Cells: cells, RecomputeEveryN: 1})

	for sym := uint32(0); sym < 5; sym++ {
		w.apply(tick.New(sym, 100_00000000, 0))
	}
	for _, c := range cells {
		assert.Equal(t, 1, c.Load().Ring.Count())
	}
}

func TestRunStopsOnContextCancelAndChannelClose(t *testing.T) {
	cells := newTestCells(1)
	in := make(chan tick.Tick, 1)
	w := New(Config{Cells: cells, In: in, RecomputeEveryN: 1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { w.Run(ctx); close(done) }()

	in <- tick.New(0, 100_00000000, 0)
	require.Eventually(t, func() bool { return cells[0].Load().Ring.Count() == 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Worker.Run did not return after context cancellation")
	}
}
