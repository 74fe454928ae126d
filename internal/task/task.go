package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mobin10111010/Planning/internal/week"
)

// Status is the recorded outcome for one tracked day. The zero value
// means the day has not been set; it serializes as JSON null.
type Status string

const (
	StatusNone     Status = ""
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
	StatusBreak    Status = "break"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNone, StatusComplete, StatusFailed, StatusBreak:
		return true
	}
	return false
}

func (s Status) MarshalJSON() ([]byte, error) {
	if s == StatusNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

func (s *Status) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*s = StatusNone
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	st := Status(v)
	if !st.Valid() {
		return fmt.Errorf("unknown day status: %q", v)
	}
	*s = st
	return nil
}

// DaySlot is one of a task's 7 per-day status records.
type DaySlot struct {
	Date   time.Time `json:"date"`
	Status Status    `json:"status"`
}

type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// WeeklyStatus always holds 7 slots; slot i tracks day offset i
	// from the task's week anchor.
	WeeklyStatus []DaySlot `json:"weeklyStatus"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`

	// Whole-task flags, independent of the per-day tracking above.
	Completed      bool       `json:"completed,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	Failed         bool       `json:"failed,omitempty"`
	FailedAt       *time.Time `json:"failedAt,omitempty"`
	OnBreak        bool       `json:"onBreak,omitempty"`
	BreakStartedAt *time.Time `json:"breakStartedAt,omitempty"`
}

// Fields carries the caller-supplied attributes of a new task.
type Fields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Patch represents a partial update.
// nil pointer => "no change"
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

func applyPatch(t *Task, p Patch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
}

// NewWeekSlots builds the 7 empty day slots for the week beginning at
// anchor.
func NewWeekSlots(anchor time.Time) []DaySlot {
	dates := week.Dates(anchor)
	out := make([]DaySlot, len(dates))
	for i, d := range dates {
		out[i] = DaySlot{Date: d, Status: StatusNone}
	}
	return out
}
