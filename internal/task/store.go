package task

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Mobin10111010/Planning/internal/clock"
	"github.com/Mobin10111010/Planning/internal/config"
	"github.com/Mobin10111010/Planning/internal/score"
	"github.com/Mobin10111010/Planning/internal/storage"
	"github.com/Mobin10111010/Planning/internal/week"
)

// StorageKey is the persistence key for the task collection and score.
const StorageKey = "taskData"

// persistedState is the wire shape stored under StorageKey.
type persistedState struct {
	Tasks  []Task `json:"tasks"`
	Level  int    `json:"level"`
	Points int    `json:"points"`
}

// StoreConfig wires a Store's collaborators. Clock and Logger default
// to the real clock and slog.Default; the anchor weekday comes from
// the config layer.
type StoreConfig struct {
	KV      storage.KV
	Clock   clock.Clock
	Balance config.Balance
	Anchor  time.Weekday
	Logger  *slog.Logger
}

// Store owns the task collection and the score ledger. All mutations
// run under one lock; day-status writes coalesce into a single
// debounced persistence write, every other mutation persists at once.
type Store struct {
	mu     sync.Mutex
	tasks  []Task
	ledger *score.Ledger

	kv       storage.KV
	clock    clock.Clock
	anchor   time.Weekday
	debounce time.Duration
	log      *slog.Logger

	saveTimer  *time.Timer
	structural func()
}

func NewStore(cfg StoreConfig) *Store {
	c := cfg.Clock
	if c == nil {
		c = clock.Real{}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		ledger:   score.NewLedger(cfg.Balance),
		kv:       cfg.KV,
		clock:    c,
		anchor:   cfg.Anchor,
		debounce: time.Duration(cfg.Balance.SaveDebounceMS) * time.Millisecond,
		log:      log,
	}
}

// OnStructuralChange registers a hook invoked whenever the shape of
// the collection changes (delete, week rollover). The stats engine
// hangs its cache invalidation here.
func (s *Store) OnStructuralChange(fn func()) {
	s.mu.Lock()
	s.structural = fn
	s.mu.Unlock()
}

// Load restores tasks and score from storage. Missing or empty data
// yields an empty collection at level 0.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !ok || raw == "" {
		s.tasks = nil
		s.ledger.Restore(0, 0)
		return nil
	}

	var st persistedState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return err
	}
	s.tasks = st.Tasks
	s.ledger.Restore(st.Points, st.Level)
	return nil
}

func (s *Store) saveLocked(ctx context.Context) {
	st := persistedState{
		Tasks:  s.tasks,
		Level:  s.ledger.Level(),
		Points: s.ledger.Points(),
	}
	if st.Tasks == nil {
		st.Tasks = []Task{}
	}
	b, err := json.Marshal(st)
	if err != nil {
		s.log.Error("encode task data failed", "err", err)
		return
	}
	if err := s.kv.Set(ctx, StorageKey, string(b)); err != nil {
		s.log.Error("save task data failed", "err", err)
	}
}

// requestSaveLocked schedules a debounced write, superseding any
// pending one. A quiet period collapses bursts of day-status updates
// into one write.
func (s *Store) requestSaveLocked() {
	if s.debounce <= 0 {
		s.saveLocked(context.Background())
		return
	}
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.debounce, func() {
		s.Flush(context.Background())
	})
}

// Flush forces any pending debounced write out now. Safe to call at
// shutdown or from tests regardless of pending state.
func (s *Store) Flush(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.saveLocked(ctx)
}

// Tasks returns a snapshot of the collection in insertion order.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	for i := range out {
		slots := make([]DaySlot, len(out[i].WeeklyStatus))
		copy(slots, out[i].WeeklyStatus)
		out[i].WeeklyStatus = slots
	}
	return out
}

// Get returns a task by id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// Title returns the current title of a task, for reminder snapshots.
func (s *Store) Title(id string) (string, bool) {
	t, ok := s.Get(id)
	return t.Title, ok
}

// Progress returns the current score snapshot.
func (s *Store) Progress() score.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Progress()
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Add creates a task with empty day slots anchored to the current
// week and persists immediately.
func (s *Store) Add(ctx context.Context, f Fields) Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	id := strconv.FormatInt(now.UnixNano(), 10)
	for next := now; s.indexLocked(id) >= 0; {
		// Creation timestamps are unique enough in practice; bump by a
		// nanosecond when two creations land on the same instant.
		next = next.Add(time.Nanosecond)
		id = strconv.FormatInt(next.UnixNano(), 10)
	}
	t := Task{
		ID:           id,
		Title:        f.Title,
		Description:  f.Description,
		WeeklyStatus: NewWeekSlots(week.Start(now, s.anchor)),
		CreatedAt:    now,
	}
	s.tasks = append(s.tasks, t)
	s.saveLocked(ctx)
	return t
}

// SetDayStatus records a status for one tracked day, adjusting the
// ledger so the day's net contribution always equals its final status.
// Unknown tasks, out-of-range indices and future days are silent
// no-ops.
func (s *Store) SetDayStatus(ctx context.Context, id string, day int, status Status) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}
	t := &s.tasks[i]
	if day < 0 || day >= len(t.WeeklyStatus) {
		return
	}
	slot := &t.WeeklyStatus[day]
	if s.clock.Now().Before(slot.Date) {
		return
	}

	if prev := slot.Status; prev != StatusNone {
		s.ledger.Apply(-s.ledger.StatusDelta(string(prev)))
	}

	slot.Status = status

	if status != StatusNone {
		s.ledger.Apply(s.ledger.StatusDelta(string(status)))
	}

	s.requestSaveLocked()
}

// Delete removes a task, reversing the points its day statuses earned,
// and persists immediately. Returns whether a task was removed.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()

	i := s.indexLocked(id)
	if i >= 0 {
		deduct := 0
		for _, slot := range s.tasks[i].WeeklyStatus {
			deduct -= s.ledger.StatusDelta(string(slot.Status))
		}
		s.ledger.Deduct(deduct)
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
	s.saveLocked(ctx)
	fn := s.structural
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
	return i >= 0
}

// Update merges a partial update into a task and persists immediately.
func (s *Store) Update(ctx context.Context, id string, p Patch) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Task{}, false
	}
	t := &s.tasks[i]
	applyPatch(t, p)
	now := s.clock.Now()
	t.UpdatedAt = &now
	s.saveLocked(ctx)
	return *t, true
}

// MarkComplete flags the whole task as completed.
func (s *Store) MarkComplete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}
	now := s.clock.Now()
	s.tasks[i].Completed = true
	s.tasks[i].CompletedAt = &now
	s.saveLocked(ctx)
}

// MarkFailed flags the whole task as failed, clearing completion.
func (s *Store) MarkFailed(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}
	now := s.clock.Now()
	s.tasks[i].Failed = true
	s.tasks[i].Completed = false
	s.tasks[i].FailedAt = &now
	s.saveLocked(ctx)
}

// ToggleBreak flips the task's break flag, stamping or clearing the
// break start time.
func (s *Store) ToggleBreak(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}
	t := &s.tasks[i]
	t.OnBreak = !t.OnBreak
	if t.OnBreak {
		now := s.clock.Now()
		t.BreakStartedAt = &now
	} else {
		t.BreakStartedAt = nil
	}
	s.saveLocked(ctx)
}

// StartNewWeek replaces every task's day slots with fresh ones
// anchored to the current week. Statuses of the discarded week simply
// vanish; their point contributions stay on the ledger.
func (s *Store) StartNewWeek(ctx context.Context) []Task {
	s.mu.Lock()

	anchor := week.Start(s.clock.Now(), s.anchor)
	for i := range s.tasks {
		s.tasks[i].WeeklyStatus = NewWeekSlots(anchor)
	}
	s.saveLocked(ctx)
	fn := s.structural
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
	return out
}
