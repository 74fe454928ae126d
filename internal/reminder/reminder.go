// Package reminder schedules task reminders and delivers them to a
// notification surface when their time arrives.
package reminder

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mobin10111010/Planning/internal/clock"
	"github.com/Mobin10111010/Planning/internal/storage"
)

// StorageKey is where the reminder list lives in the key-value store.
const StorageKey = "reminders"

// Reminder is a one-shot notification tied to a task. TaskTitle is a
// snapshot taken at creation so the reminder still reads well if the
// task is renamed or removed.
type Reminder struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	TaskTitle string    `json:"taskTitle"`
	Time      time.Time `json:"time"`
	Message   string    `json:"message"`
}

// TitleLookup resolves a task ID to its current title.
type TitleLookup interface {
	Title(id string) (string, bool)
}

// Surface receives reminders when they fire.
type Surface interface {
	Display(r Reminder)
}

type SchedulerConfig struct {
	KV      storage.KV
	Clock   clock.Clock
	Titles  TitleLookup
	Surface Surface
	Logger  *slog.Logger
}

// Scheduler owns the reminder list and the timers that fire them.
type Scheduler struct {
	mu        sync.Mutex
	kv        storage.KV
	clock     clock.Clock
	titles    TitleLookup
	surface   Surface
	log       *slog.Logger
	reminders []Reminder
	timers    map[string]*time.Timer
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	c := cfg.Clock
	if c == nil {
		c = clock.Real{}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		kv:      cfg.KV,
		clock:   c,
		titles:  cfg.Titles,
		surface: cfg.Surface,
		log:     log,
		timers:  map[string]*time.Timer{},
	}
}

// Init loads persisted reminders and arms the ones still in the
// future. Reminders whose time has already passed stay in the list
// but never fire.
func (s *Scheduler) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return err
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.reminders); err != nil {
			return err
		}
	}

	for _, timer := range s.timers {
		timer.Stop()
	}
	s.timers = map[string]*time.Timer{}

	now := s.clock.Now()
	for _, r := range s.reminders {
		if r.Time.After(now) {
			s.armLocked(r)
		}
	}
	return nil
}

// Add creates and arms a reminder for the given task. It returns nil
// when the task does not exist.
func (s *Scheduler) Add(ctx context.Context, taskID string, at time.Time, message string) *Reminder {
	title, ok := s.titles.Title(taskID)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := Reminder{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		TaskTitle: title,
		Time:      at,
		Message:   message,
	}
	s.reminders = append(s.reminders, r)
	s.saveLocked(ctx)
	if at.After(s.clock.Now()) {
		s.armLocked(r)
	}
	return &r
}

// Delete removes a reminder from the list. An already armed timer is
// left running and will still fire.
func (s *Scheduler) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.reminders[:0]
	found := false
	for _, r := range s.reminders {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	s.reminders = kept
	if found {
		s.saveLocked(ctx)
	}
	return found
}

// Reminders returns the reminders for one task, or all of them when
// taskID is empty.
func (s *Scheduler) Reminders(taskID string) []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		if taskID == "" || r.TaskID == taskID {
			out = append(out, r)
		}
	}
	return out
}

// Stop cancels every armed timer. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, timer := range s.timers {
		timer.Stop()
	}
	s.timers = map[string]*time.Timer{}
}

func (s *Scheduler) armLocked(r Reminder) {
	delay := r.Time.Sub(s.clock.Now())
	s.timers[r.ID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, r.ID)
		s.mu.Unlock()
		s.surface.Display(r)
	})
}

func (s *Scheduler) saveLocked(ctx context.Context) {
	raw, err := json.Marshal(s.reminders)
	if err != nil {
		s.log.Error("encode reminders", "err", err)
		return
	}
	if err := s.kv.Set(ctx, StorageKey, string(raw)); err != nil {
		s.log.Error("save reminders", "err", err)
	}
}
