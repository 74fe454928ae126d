package reminder

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mobin10111010/Planning/internal/clock"
	"github.com/Mobin10111010/Planning/internal/storage"
)

type stubTitles map[string]string

func (s stubTitles) Title(id string) (string, bool) {
	title, ok := s[id]
	return title, ok
}

type recordingSurface struct {
	fired chan Reminder
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{fired: make(chan Reminder, 8)}
}

func (r *recordingSurface) Display(rem Reminder) { r.fired <- rem }

func newSchedulerForTest(t *testing.T, kv storage.KV) (*Scheduler, *recordingSurface) {
	t.Helper()
	surface := newRecordingSurface()
	s := NewScheduler(SchedulerConfig{
		KV:      kv,
		Clock:   clock.Real{},
		Titles:  stubTitles{"t1": "Morning run"},
		Surface: surface,
	})
	t.Cleanup(s.Stop)
	return s, surface
}

func TestAdd_FiresOnceAtDueTime(t *testing.T) {
	s, surface := newSchedulerForTest(t, storage.NewMemory())

	r := s.Add(context.Background(), "t1", time.Now().Add(20*time.Millisecond), "go")
	require.NotNil(t, r)
	assert.Equal(t, "Morning run", r.TaskTitle)

	select {
	case fired := <-surface.fired:
		assert.Equal(t, r.ID, fired.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("reminder never fired")
	}

	select {
	case <-surface.fired:
		t.Fatal("reminder fired twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAdd_UnknownTask(t *testing.T) {
	s, _ := newSchedulerForTest(t, storage.NewMemory())
	assert.Nil(t, s.Add(context.Background(), "nope", time.Now().Add(time.Hour), "go"))
	assert.Empty(t, s.Reminders(""))
}

func TestInit_SkipsPastReminders(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	stored := []Reminder{
		{ID: "past", TaskID: "t1", TaskTitle: "Morning run", Time: time.Now().Add(-time.Hour)},
		{ID: "future", TaskID: "t1", TaskTitle: "Morning run", Time: time.Now().Add(25 * time.Millisecond)},
	}
	raw, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, StorageKey, string(raw)))

	s, surface := newSchedulerForTest(t, kv)
	require.NoError(t, s.Init(ctx))

	// Both stay listed, only the future one fires.
	assert.Len(t, s.Reminders("t1"), 2)
	select {
	case fired := <-surface.fired:
		assert.Equal(t, "future", fired.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("future reminder never fired")
	}
	select {
	case fired := <-surface.fired:
		t.Fatalf("unexpected fire: %s", fired.ID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDelete_RemovesFromListButArmedTimerStillFires(t *testing.T) {
	ctx := context.Background()
	s, surface := newSchedulerForTest(t, storage.NewMemory())

	r := s.Add(ctx, "t1", time.Now().Add(25*time.Millisecond), "go")
	require.NotNil(t, r)
	require.True(t, s.Delete(ctx, r.ID))
	assert.Empty(t, s.Reminders(""))
	assert.False(t, s.Delete(ctx, r.ID))

	select {
	case fired := <-surface.fired:
		assert.Equal(t, r.ID, fired.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("armed reminder should still fire after delete")
	}
}

func TestStop_CancelsArmedTimers(t *testing.T) {
	s, surface := newSchedulerForTest(t, storage.NewMemory())

	require.NotNil(t, s.Add(context.Background(), "t1", time.Now().Add(25*time.Millisecond), "go"))
	s.Stop()
	s.Stop()

	select {
	case <-surface.fired:
		t.Fatal("reminder fired after Stop")
	case <-time.After(75 * time.Millisecond):
	}
}

func TestReminders_PersistAcrossInit(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	first, _ := newSchedulerForTest(t, kv)
	r := first.Add(ctx, "t1", time.Now().Add(time.Hour), "go")
	require.NotNil(t, r)
	first.Stop()

	second, _ := newSchedulerForTest(t, kv)
	require.NoError(t, second.Init(ctx))
	got := second.Reminders("t1")
	require.Len(t, got, 1)
	assert.Equal(t, r.ID, got[0].ID)
}

func TestPanelSurface_DismissIsIdempotent(t *testing.T) {
	ps := NewPanelSurface(0, nil)
	ps.Display(Reminder{ID: "r1", TaskTitle: "Morning run"})

	require.Len(t, ps.Panels(), 1)
	assert.True(t, ps.Dismiss("r1"))
	assert.False(t, ps.Dismiss("r1"))
	assert.Empty(t, ps.Panels())
}

func TestPanelSurface_AutoDismiss(t *testing.T) {
	ps := NewPanelSurface(20, nil)
	ps.Display(Reminder{ID: "r1"})

	assert.Eventually(t, func() bool {
		return len(ps.Panels()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
