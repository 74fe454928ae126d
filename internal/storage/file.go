package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// File is a JSON-file-backed KV. The entire map is rewritten on every
// Set, which is fine for the small payloads this store carries.
type File struct {
	mu   sync.RWMutex
	path string
	m    map[string]string
}

func NewFile(dataDir string) (*File, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	f := &File{
		path: filepath.Join(dataDir, "planning.json"),
		m:    map[string]string{},
	}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.m = map[string]string{}
			return nil
		}
		return err
	}

	var loaded map[string]string
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded == nil {
		loaded = map[string]string{}
	}
	f.m = loaded
	return nil
}

func (f *File) saveLocked() error {
	b, err := json.MarshalIndent(f.m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, b, 0o644)
}

func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	_ = ctx

	f.mu.RLock()
	v, ok := f.m[key]
	f.mu.RUnlock()

	return v, ok, nil
}

func (f *File) Set(ctx context.Context, key, value string) error {
	_ = ctx

	f.mu.Lock()
	defer f.mu.Unlock()

	f.m[key] = value
	return f.saveLocked()
}

func (f *File) Close() error { return nil }
