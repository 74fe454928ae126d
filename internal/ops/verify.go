package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Mobin10111010/Planning/internal/reminder"
	"github.com/Mobin10111010/Planning/internal/storage"
	"github.com/Mobin10111010/Planning/internal/task"
)

// Report summarizes the tracker data found in a data directory.
type Report struct {
	Tasks     int
	Level     int
	Points    int
	Reminders int
}

func (r Report) String() string {
	return fmt.Sprintf("tasks=%d level=%d points=%d reminders=%d",
		r.Tasks, r.Level, r.Points, r.Reminders)
}

// VerifyDataDir opens the store in dir and checks that the task and
// reminder payloads decode. Both the file and sqlite layouts are
// recognized. A drill compares the reports of the source and restored
// directories instead of hashing bytes, so it proves the data is
// usable rather than merely copied.
func VerifyDataDir(ctx context.Context, dir string) (*Report, error) {
	kv, err := openKV(dir)
	if err != nil {
		return nil, err
	}
	defer kv.Close()

	rep := &Report{}

	raw, ok, err := kv.Get(ctx, task.StorageKey)
	if err != nil {
		return nil, err
	}
	if ok {
		var state struct {
			Tasks  []task.Task `json:"tasks"`
			Level  int         `json:"level"`
			Points int         `json:"points"`
		}
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			return nil, fmt.Errorf("decode %s: %w", task.StorageKey, err)
		}
		rep.Tasks = len(state.Tasks)
		rep.Level = state.Level
		rep.Points = state.Points
	}

	raw, ok, err = kv.Get(ctx, reminder.StorageKey)
	if err != nil {
		return nil, err
	}
	if ok {
		var rs []reminder.Reminder
		if err := json.Unmarshal([]byte(raw), &rs); err != nil {
			return nil, fmt.Errorf("decode %s: %w", reminder.StorageKey, err)
		}
		rep.Reminders = len(rs)
	}

	return rep, nil
}

func openKV(dir string) (storage.KV, error) {
	if _, err := os.Stat(filepath.Join(dir, "planning.sqlite")); err == nil {
		return storage.NewSQLite(dir)
	}
	if _, err := os.Stat(filepath.Join(dir, "planning.json")); err == nil {
		return storage.NewFile(dir)
	}
	return nil, fmt.Errorf("no planning data store in %s", dir)
}
