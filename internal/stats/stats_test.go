package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mobin10111010/Planning/internal/clock"
	"github.com/Mobin10111010/Planning/internal/config"
	"github.com/Mobin10111010/Planning/internal/score"
	"github.com/Mobin10111010/Planning/internal/task"
	"github.com/Mobin10111010/Planning/internal/week"
)

type stubSource struct {
	tasks    []task.Task
	progress score.Progress
}

func (s *stubSource) Tasks() []task.Task       { return s.tasks }
func (s *stubSource) Progress() score.Progress { return s.progress }

var statsNow = time.Date(2026, 2, 4, 12, 0, 0, 0, time.UTC)

func newEngineForTest(src *stubSource, fake *clock.Fake) *Engine {
	return NewEngine(EngineConfig{
		Source:  src,
		Clock:   fake,
		Balance: config.Default(),
		Anchor:  time.Saturday,
	})
}

func slots(statuses ...task.Status) []task.DaySlot {
	out := task.NewWeekSlots(week.Start(statsNow, time.Saturday))
	for i, st := range statuses {
		out[i].Status = st
	}
	return out
}

func TestWeekly_TalliesBySlotIndex(t *testing.T) {
	src := &stubSource{tasks: []task.Task{
		{ID: "1", WeeklyStatus: slots(task.StatusComplete, task.StatusFailed)},
		{ID: "2", WeeklyStatus: slots(task.StatusComplete, task.StatusNone, task.StatusBreak)},
	}}
	eng := newEngineForTest(src, clock.NewFake(statsNow))

	sum := eng.Weekly()
	require.Len(t, sum.Weekly, 7)
	assert.Equal(t, 2, sum.Weekly[0].Completed)
	assert.Equal(t, 1, sum.Weekly[1].Failed)
	assert.Equal(t, 1, sum.Weekly[2].Break)
	assert.Equal(t, Totals{Completed: 2, Failed: 1, Break: 1}, sum.Total)
}

func TestWeekly_ServesSameObjectWhileFresh(t *testing.T) {
	src := &stubSource{tasks: []task.Task{
		{ID: "1", WeeklyStatus: slots(task.StatusComplete)},
	}}
	fake := clock.NewFake(statsNow)
	eng := newEngineForTest(src, fake)

	first := eng.Weekly()
	fake.Advance(500 * time.Millisecond)
	assert.Same(t, first, eng.Weekly())

	fake.Advance(600 * time.Millisecond)
	assert.NotSame(t, first, eng.Weekly())
}

func TestWeekly_InvalidateDropsCache(t *testing.T) {
	src := &stubSource{tasks: []task.Task{
		{ID: "1", WeeklyStatus: slots(task.StatusComplete)},
	}}
	eng := newEngineForTest(src, clock.NewFake(statsNow))

	first := eng.Weekly()
	src.tasks = nil
	eng.Invalidate()

	second := eng.Weekly()
	assert.NotSame(t, first, second)
	assert.Equal(t, 0, second.Total.Completed)
}

func TestPrediction_NilWithoutTasks(t *testing.T) {
	eng := newEngineForTest(&stubSource{}, clock.NewFake(statsNow))
	assert.Nil(t, eng.Prediction())
}

func TestPrediction_Figures(t *testing.T) {
	// 8 completions and 2 failures across two tasks; all ten recorded
	// statuses feed the consistency window.
	src := &stubSource{
		tasks: []task.Task{
			{ID: "1", WeeklyStatus: slots(
				task.StatusComplete, task.StatusComplete, task.StatusComplete,
				task.StatusComplete, task.StatusFailed)},
			{ID: "2", WeeklyStatus: slots(
				task.StatusComplete, task.StatusComplete, task.StatusComplete,
				task.StatusComplete, task.StatusFailed)},
		},
		progress: score.Progress{Level: 3, Points: 350},
	}
	eng := newEngineForTest(src, clock.NewFake(statsNow))

	p := eng.Prediction()
	require.NotNil(t, p)
	assert.Equal(t, 80, p.OverallSuccessRate)
	assert.Equal(t, 15, p.LevelBonus)
	// 80% completion share scaled by 0.15 is 12.
	assert.Equal(t, 12, p.ConsistencyBonus)
	assert.Equal(t, 100, p.AdjustedSuccessRate)
}

func TestPrediction_LevelBonusIsCapped(t *testing.T) {
	src := &stubSource{
		tasks:    []task.Task{{ID: "1", WeeklyStatus: slots(task.StatusComplete)}},
		progress: score.Progress{Level: 9, Points: 900},
	}
	eng := newEngineForTest(src, clock.NewFake(statsNow))

	p := eng.Prediction()
	require.NotNil(t, p)
	assert.Equal(t, 25, p.LevelBonus)
	assert.Equal(t, 100, p.AdjustedSuccessRate)
}

func TestPrediction_ZeroRateWithoutRecordedDays(t *testing.T) {
	src := &stubSource{
		tasks: []task.Task{{ID: "1", WeeklyStatus: slots()}},
	}
	eng := newEngineForTest(src, clock.NewFake(statsNow))

	p := eng.Prediction()
	require.NotNil(t, p)
	assert.Equal(t, 0, p.OverallSuccessRate)
	assert.Equal(t, 0, p.ConsistencyBonus)
	assert.Equal(t, 0, p.AdjustedSuccessRate)
}
