package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "taskData")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "taskData", `{"tasks":[]}`))

	v, ok, err := kv.Get(ctx, "taskData")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"tasks":[]}`, v)

	require.NoError(t, kv.Set(ctx, "taskData", `{"tasks":[],"points":10}`))
	v, ok, err = kv.Get(ctx, "taskData")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"tasks":[],"points":10}`, v)
}

func TestMemoryKV(t *testing.T) {
	testKV(t, NewMemory())
}

func TestFileKV(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFile(dir)
	require.NoError(t, err)
	testKV(t, kv)

	// A fresh handle over the same directory sees persisted values.
	again, err := NewFile(dir)
	require.NoError(t, err)
	v, ok, err := again.Get(context.Background(), "taskData")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, v, "points")
}

func TestSQLiteKV(t *testing.T) {
	kv, err := NewSQLite(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = kv.Close() }()

	testKV(t, kv)
}
