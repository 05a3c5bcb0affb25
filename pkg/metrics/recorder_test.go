package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderPercentilesOnUniformSamples(t *testing.T) {
	r := NewRecorder(100_000, 3)
	for us := int64(1); us <= 100; us++ {
		require.NoError(t, r.Record(us))
	}

	assert.EqualValues(t, 100, r.Count())
	assert.EqualValues(t, 1, r.Min())
	assert.EqualValues(t, 100, r.Max())
	assert.InDelta(t, 50, r.Percentile(50.0), 2)
	assert.InDelta(t, 99, r.Percentile(99.0), 2)
}

func TestSummarizeCarriesExecCountersThrough(t *testing.T) {
	r := NewRecorder(100_000, 3)
	for _, us := range []int64{10, 20, 30, 40, 50} {
		require.NoError(t, r.Record(us))
	}

	exec := ExecCounters{
		EmittedIntents:  5,
		DroppedIntents:  1,
		AckCount:        5,
		FillCount:       4,
		GateBlockCount:  2,
		CooldownBlocked: 1,
	}
	summary := r.Summarize(2.0, 15, exec)

	assert.EqualValues(t, 5, summary.Count)
	assert.InDelta(t, 2.5, summary.ThroughputAvg, 1e-9) // 5 samples / 2s
	assert.EqualValues(t, 5, summary.EmittedIntents)
	assert.EqualValues(t, 1, summary.DroppedIntents)
	assert.EqualValues(t, 4, summary.FillCount)
	assert.EqualValues(t, 2, summary.GateBlockCount)
	assert.EqualValues(t, 1, summary.CooldownBlock)
	assert.Equal(t, "PASS", summary.PassStatus) // 50us p95 is well under a 15ms target
}

func TestSummarizeZeroDurationLeavesThroughputZero(t *testing.T) {
	r := NewRecorder(100_000, 3)
	require.NoError(t, r.Record(5))
	summary := r.Summarize(0, 15, ExecCounters{})
	assert.Zero(t, summary.ThroughputAvg)
}

func TestEvaluateSoftGatePassAndWarnBoundary(t *testing.T) {
	assert.Equal(t, "PASS", EvaluateSoftGate(15_000, 15))
	assert.Equal(t, "WARN", EvaluateSoftGate(15_001, 15))
}

func TestRecordClampsOutOfRangeValuesToMax(t *testing.T) {
	r := NewRecorder(1_000, 3)
	require.NoError(t, r.Record(10_000_000)) // far above maxValueUs, must clamp instead of erroring

	assert.EqualValues(t, 1, r.Count())
	assert.EqualValues(t, 1_000, r.Max())
}

func TestSerializeProducesNonEmptyEncoding(t *testing.T) {
	r := NewRecorder(100_000, 3)
	require.NoError(t, r.Record(42))

	b, err := r.Serialize()
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}
