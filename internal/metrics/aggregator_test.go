package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinIdx_ClampsToLastBin(t *testing.T) {
	a := New("exp1", "env1", 4, 100)
	a.RecordDecision(1000)
	assert.Equal(t, 1, a.Decisions[3])
}

func TestRecordArrival_AccumulatesPerBin(t *testing.T) {
	a := New("exp1", "env1", 2, 100)
	a.RecordArrival("cafe", 10, 5.0, 10)
	a.RecordArrival("cafe", 20, 15.0, 60)

	assert.Equal(t, 1, a.Arrivals[0])
	assert.Equal(t, 1, a.Arrivals[1])
	assert.Equal(t, 10.0, a.WalkCells[0])
	assert.Equal(t, 20.0, a.WalkCells[1])
}

func TestSummarize_NoBaselineUsesSqrtCompression(t *testing.T) {
	a := New("exp1", "env1", 1, 100)
	a.StartRun(10)
	a.RecordPurchase(24, 0)

	s := a.Summarize(nil)
	assert.InDelta(t, 50.0, s.Cost[0].Y, 1e-6)
}

func TestSummarize_BaselineCostReduction(t *testing.T) {
	baseline := New("exp1", "env1", 1, 100)
	baseline.StartRun(10)
	baseline.RecordPurchase(100, 0)

	scenario := New("exp1", "env2", 1, 100)
	scenario.StartRun(10)
	scenario.RecordPurchase(50, 0)

	s := scenario.Summarize(baseline)
	assert.InDelta(t, 50.0, s.Cost[0].Y, 1e-6)
}

func TestSummarize_EfficiencyFullArrivalsNoWalk(t *testing.T) {
	a := New("exp1", "env1", 1, 100)
	a.StartRun(2)
	a.RecordArrival("cafe", 0, 1, 0)
	a.RecordArrival("cafe", 0, 1, 0)

	s := a.Summarize(nil)
	assert.InDelta(t, 100.0, s.Efficiency[0].Y, 1e-6)
}

func TestSummarize_TimeSavedZeroWithoutBaseline(t *testing.T) {
	a := New("exp1", "env1", 1, 100)
	a.StartRun(1)
	a.RecordArrival("cafe", 5, 3, 0)

	s := a.Summarize(nil)
	assert.Equal(t, 0.0, s.TimeSaved[0].Y)
}

func TestSummarize_TimeSavedPositiveWhenFasterThanBaseline(t *testing.T) {
	baseline := New("exp1", "env1", 1, 100)
	baseline.StartRun(1)
	baseline.RecordArrival("cafe", 5, 20, 0)

	scenario := New("exp1", "env2", 1, 100)
	scenario.StartRun(1)
	scenario.RecordArrival("cafe", 5, 5, 0)

	s := scenario.Summarize(baseline)
	assert.InDelta(t, 150.0, s.TimeSaved[0].Y, 1e-6)
}

func TestSummarize_Idempotent(t *testing.T) {
	a := New("exp1", "env1", 3, 90)
	a.StartRun(5)
	a.RecordArrival("cafe", 10, 5, 10)
	a.RecordPurchase(12, 10)

	s1 := a.Summarize(nil)
	s2 := a.Summarize(nil)
	assert.Equal(t, s1, s2)
}
