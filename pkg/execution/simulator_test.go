package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/hotpath"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/intent"
)

func TestProcessIntentProducesSubmittedAckFillInOrder(t *testing.T) {
	ch := hotpath.NewChannels(4, 8)
	s := New(Config{Channels: ch, AckDelayUs: 2_000, FillDelayUs: 5_000})

	in := intent.Intent{IntentID: 42, SymbolID: 3, Side: intent.SideBuy, PxE8: 100_00000000, TsMs: 1_000}
	s.processIntent(in)

	submit := <-ch.Events
	ack := <-ch.Events
	fill := <-ch.Events

	assert.Equal(t, intent.EventSubmitted, submit.Kind)
	assert.EqualValues(t, 1_000, submit.TsMs)

	assert.Equal(t, intent.EventAck, ack.Kind)
	assert.EqualValues(t, 1_002, ack.TsMs) // 1000 + 2000us/1000

	assert.Equal(t, intent.EventFill, fill.Kind)
	assert.EqualValues(t, 1_007, fill.TsMs) // 1002 + 5000us/1000

	for _, ev := range []intent.Event{submit, ack, fill} {
		assert.Equal(t, in.IntentID, ev.IntentID)
		assert.Equal(t, in.SymbolID, ev.SymbolID)
		assert.Equal(t, in.PxE8, ev.PxE8)
	}

	snap := s.Snapshot()
	assert.EqualValues(t, 1, snap.Submitted)
	assert.EqualValues(t, 1, snap.Acks)
	assert.EqualValues(t, 1, snap.Fills)
}

func TestProcessIntentDropsEventsWhenQueueIsFull(t *testing.T) {
	ch := hotpath.NewChannels(4, 1)
	s := New(Config{Channels: ch})

	s.processIntent(intent.Intent{IntentID: 1, SymbolID: 0, TsMs: 0})

	// events capacity is 1: only the Submitted event fits, Ack and Fill are dropped silently.
	require.Len(t, ch.Events, 1)
	ev := <-ch.Events
	assert.Equal(t, intent.EventSubmitted, ev.Kind)

	snap := s.Snapshot()
	assert.EqualValues(t, 1, snap.Submitted)
	assert.EqualValues(t, 1, snap.Acks)
	assert.EqualValues(t, 1, snap.Fills)
}

type fakePublisher struct {
	events []intent.Event
}

func (f *fakePublisher) PublishEvent(ev intent.Event) error {
	f.events = append(f.events, ev)
	return nil
}

func TestProcessIntentCallsPublisherForEveryEvent(t *testing.T) {
	ch := hotpath.NewChannels(4, 8)
	pub := &fakePublisher{}
	s := New(Config{Channels: ch, Publisher: pub})

	s.processIntent(intent.Intent{IntentID: 7, SymbolID: 1, TsMs: 500})

	require.Len(t, pub.events, 3)
	assert.Equal(t, intent.EventSubmitted, pub.events[0].Kind)
	assert.Equal(t, intent.EventAck, pub.events[1].Kind)
	assert.Equal(t, intent.EventFill, pub.events[2].Kind)
}
