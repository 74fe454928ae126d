package ops

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mobin10111010/Planning/internal/reminder"
	"github.com/Mobin10111010/Planning/internal/storage"
	"github.com/Mobin10111010/Planning/internal/task"
)

func seedFileStore(t *testing.T, dir string) {
	t.Helper()
	ctx := context.Background()

	kv, err := storage.NewFile(dir)
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}

	state := map[string]any{
		"tasks": []map[string]any{
			{"id": "1738500000000000000", "title": "Laundry", "weeklyStatus": []any{}},
			{"id": "1738500000000000001", "title": "Morning run", "weeklyStatus": []any{}},
		},
		"level":  2,
		"points": 215,
	}
	raw, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal task payload: %v", err)
	}
	if err := kv.Set(ctx, task.StorageKey, string(raw)); err != nil {
		t.Fatalf("seed %s: %v", task.StorageKey, err)
	}

	rems := []reminder.Reminder{
		{ID: "r1", TaskID: "1738500000000000000", TaskTitle: "Laundry", Time: time.Now().Add(time.Hour)},
	}
	raw, err = json.Marshal(rems)
	if err != nil {
		t.Fatalf("marshal reminder payload: %v", err)
	}
	if err := kv.Set(ctx, reminder.StorageKey, string(raw)); err != nil {
		t.Fatalf("seed %s: %v", reminder.StorageKey, err)
	}
}

func TestBackupRestore_RestoredDataStaysUsable(t *testing.T) {
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "data")
	seedFileStore(t, src)

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	if err := BackupDataDir(src, archive); err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	restored := filepath.Join(t.TempDir(), "restored")
	if err := RestoreDataDir(archive, restored); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	want, err := VerifyDataDir(ctx, src)
	if err != nil {
		t.Fatalf("verify source: %v", err)
	}
	got, err := VerifyDataDir(ctx, restored)
	if err != nil {
		t.Fatalf("verify restored: %v", err)
	}

	if *want != *got {
		t.Fatalf("restored data mismatch: src=%s restored=%s", want, got)
	}
	if got.Tasks != 2 || got.Level != 2 || got.Points != 215 || got.Reminders != 1 {
		t.Fatalf("unexpected restored report: %s", got)
	}
}

func TestVerifyDataDir_RefusesEmptyDirectory(t *testing.T) {
	if _, err := VerifyDataDir(context.Background(), t.TempDir()); err == nil {
		t.Fatal("expected verify to fail without a data store")
	}
}

func TestVerifyDataDir_RefusesCorruptTaskPayload(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	kv, err := storage.NewFile(dir)
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	if err := kv.Set(ctx, task.StorageKey, "{not json"); err != nil {
		t.Fatalf("seed corrupt payload: %v", err)
	}

	if _, err := VerifyDataDir(ctx, dir); err == nil {
		t.Fatal("expected verify to reject a corrupt task payload")
	}
}

func TestRestoreDataDir_RejectsPathTraversal(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "bad.tar.gz")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	if err := tw.WriteHeader(&tar.Header{
		Name:     "../escape.txt",
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len("bad")),
	}); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if _, err := tw.Write([]byte("bad")); err != nil {
		t.Fatalf("write body: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	if err := RestoreDataDir(archive, filepath.Join(t.TempDir(), "out")); err == nil {
		t.Fatalf("expected restore to reject path traversal archive")
	}
}
