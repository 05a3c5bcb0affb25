package hotpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/gate"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/intent"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/pricering"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/tick"
)

// newTestHarness wires up a Processor with its own Cells/Gate/Channels.
// feedTick simulates the maintenance path having already published the
// snapshot for this tick before HotPath evaluates it — the two paths
// share a tick of lag in the real pipeline, but tests pin it to zero so
// the expected triggers in the spec's scenarios line up exactly.
func newTestHarness(t *testing.T, numSymbols uint32, cfg Config, gateCfg gate.Config) (*Processor, []*pricering.Cell, *gate.Gate) {
	t.Helper()
	cells := make([]*pricering.Cell, numSymbols)
	for i := range cells {
		cells[i] = pricering.NewCell(64, cfg.WindowMs)
	}
	g := gate.New(gateCfg)
	ch := NewChannels(16, 32)
	p := New(cfg, cells, g, ch)
	return p, cells, g
}

func feedTick(cells []*pricering.Cell, p *Processor, symbolID uint32, pxE8, tsMs uint64) *TriggerEvent {
	cells[symbolID].AppendAndPublish(pxE8, tsMs, false)
	return p.Process(tick.New(symbolID, pxE8, tsMs))
}

func TestScenario1_ThresholdCrossing(t *testing.T) {
	cfg := Config{MaxSymbols: 1, WindowMs: 60_000, ReturnThreshold: 5.0}
	gateCfg := gate.Config{MaxSymbols: 1, CooldownMs: 0, MaxOpenIntents: 1000, InitialBudget: ^uint64(0)}
	p, cells, g := newTestHarness(t, 1, cfg, gateCfg)

	ev := feedTick(cells, p, 0, 100_00000000, 1_000)
	assert.Nil(t, ev)

	ev = feedTick(cells, p, 0, 104_00000000, 59_000)
	assert.Nil(t, ev, "4%% return must not trigger at a 5%% threshold")

	ev = feedTick(cells, p, 0, 106_00000000, 60_000)
	require.NotNil(t, ev)
	assert.True(t, ev.Triggered)
	assert.InDelta(t, 6.0, ev.ReturnPct, 1e-6)
	assert.Equal(t, gate.Admitted, ev.Admit)
	assert.EqualValues(t, 1, g.Snapshot().Emitted)
}

func TestScenario2_CooldownSuppression(t *testing.T) {
	cfg := Config{MaxSymbols: 1, WindowMs: 60_000, ReturnThreshold: 5.0}
	gateCfg := gate.Config{MaxSymbols: 1, CooldownMs: 500, MaxOpenIntents: 1000, InitialBudget: ^uint64(0)}
	p, cells, g := newTestHarness(t, 1, cfg, gateCfg)

	feedTick(cells, p, 0, 100_00000000, 0)
	ev1 := feedTick(cells, p, 0, 110_00000000, 1_000)
	require.NotNil(t, ev1)
	assert.Equal(t, gate.Admitted, ev1.Admit)

	ev2 := feedTick(cells, p, 0, 121_00000000, 1_200)
	require.NotNil(t, ev2)
	assert.Equal(t, gate.Cooldown, ev2.Admit)

	snap := g.Snapshot()
	assert.EqualValues(t, 1, snap.Emitted)
	assert.EqualValues(t, 1, snap.CooldownBlocked)
}

func TestScenario3_BudgetExhaustion(t *testing.T) {
	cfg := Config{MaxSymbols: 3, WindowMs: 60_000, ReturnThreshold: 5.0}
	gateCfg := gate.Config{MaxSymbols: 3, CooldownMs: 0, MaxOpenIntents: 1000, InitialBudget: 2}
	p, cells, g := newTestHarness(t, 3, cfg, gateCfg)

	for sym := uint32(0); sym < 3; sym++ {
		feedTick(cells, p, sym, 100_00000000, 0)
		feedTick(cells, p, sym, 110_00000000, 1_000)
	}

	snap := g.Snapshot()
	assert.EqualValues(t, 2, snap.Emitted)
	assert.EqualValues(t, 1, snap.GateBlocked)
}

func TestScenario4_QueueBackpressure(t *testing.T) {
	cfg := Config{MaxSymbols: 3, WindowMs: 60_000, ReturnThreshold: 5.0}
	gateCfg := gate.Config{MaxSymbols: 3, CooldownMs: 0, MaxOpenIntents: 1000, InitialBudget: ^uint64(0)}

	cells := make([]*pricering.Cell, 3)
	for i := range cells {
		cells[i] = pricering.NewCell(64, cfg.WindowMs)
	}
	g := gate.New(gateCfg)
	ch := NewChannels(1, 2) // intents capacity 1: simulator never drains it in this test
	p := New(cfg, cells, g, ch)

	for sym := uint32(0); sym < 3; sym++ {
		feedTick(cells, p, sym, 100_00000000, 0)
		feedTick(cells, p, sym, 110_00000000, 1_000)
	}

	snap := g.Snapshot()
	assert.EqualValues(t, 3, snap.Emitted, "gate admits all three regardless of queue capacity")
	assert.EqualValues(t, 2, snap.Dropped)
	assert.Len(t, ch.Intents, 1)
}

func TestScenario6_KillSwitch(t *testing.T) {
	cfg := Config{MaxSymbols: 1, WindowMs: 60_000, ReturnThreshold: 5.0}
	gateCfg := gate.Config{MaxSymbols: 1, CooldownMs: 0, MaxOpenIntents: 1000, InitialBudget: ^uint64(0)}
	p, cells, g := newTestHarness(t, 1, cfg, gateCfg)

	feedTick(cells, p, 0, 100_00000000, 0)

	g.SetCanBuy(false)

	ev := feedTick(cells, p, 0, 120_00000000, 1_000)
	assert.Nil(t, ev, "no trigger record at all once the kill switch is off")

	snap := g.Snapshot()
	assert.Zero(t, snap.Emitted)
	assert.Zero(t, snap.GateBlocked)
	assert.Zero(t, snap.CooldownBlocked)
}

func TestProcessIgnoresOutOfRangeSymbol(t *testing.T) {
	cfg := Config{MaxSymbols: 2, WindowMs: 60_000, ReturnThreshold: 5.0}
	gateCfg := gate.Config{MaxSymbols: 2, CooldownMs: 0, MaxOpenIntents: 10, InitialBudget: 10}
	p, _, _ := newTestHarness(t, 2, cfg, gateCfg)

	ev := p.Process(tick.New(99, 100_00000000, 0))
	assert.Nil(t, ev)
}

func TestSentIntentCarriesSymbolAndPrice(t *testing.T) {
	cfg := Config{MaxSymbols: 1, WindowMs: 60_000, ReturnThreshold: 5.0}
	gateCfg := gate.Config{MaxSymbols: 1, CooldownMs: 0, MaxOpenIntents: 10, InitialBudget: 10}
	p, cells, _ := newTestHarness(t, 1, cfg, gateCfg)

	feedTick(cells, p, 0, 100_00000000, 0)
	ev := feedTick(cells, p, 0, 110_00000000, 1_000)
	require.NotNil(t, ev)
	require.True(t, ev.Sent)

	in := <-p.Channels().Intents
	assert.Equal(t, uint32(0), in.SymbolID)
	assert.Equal(t, intent.SideBuy, in.Side)
	assert.EqualValues(t, 110_00000000, in.PxE8)
}
