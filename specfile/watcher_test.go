package specfile

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routetree/internal/observability"
)

const updatedSpecYAML = `
version: v1
specs:
  - name: users
    prefix: /api/v2
    paths:
      /users/{id}:
        backend: users-svc-v2
`

func TestNewWatcher(t *testing.T) {
	t.Parallel()

	path := writeSpec(t, validSpecYAML)
	watcher, err := NewWatcher(path, func(f *File) {})
	require.NoError(t, err)
	require.NotNil(t, watcher)

	assert.Equal(t, path, watcher.path)
	assert.NotNil(t, watcher.callback)
	assert.Equal(t, 100*time.Millisecond, watcher.debounceDelay)
}

func TestNewWatcher_WithOptions(t *testing.T) {
	t.Parallel()

	path := writeSpec(t, validSpecYAML)
	watcher, err := NewWatcher(path, func(f *File) {},
		WithDebounceDelay(10*time.Millisecond),
		WithLogger(observability.NopLogger()),
		WithErrorCallback(func(err error) {}),
	)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Millisecond, watcher.debounceDelay)
	assert.NotNil(t, watcher.errorCallback)
}

func TestWatcher_StartLoadsInitialFile(t *testing.T) {
	t.Parallel()

	path := writeSpec(t, validSpecYAML)
	watcher, err := NewWatcher(path, nil)
	require.NoError(t, err)

	require.NoError(t, watcher.Start(context.Background()))
	defer func() { require.NoError(t, watcher.Stop()) }()

	file := watcher.GetLastFile()
	require.NotNil(t, file)
	assert.Equal(t, "users", file.Specs[0].Name)
}

func TestWatcher_StartFailsOnInvalidFile(t *testing.T) {
	t.Parallel()

	path := writeSpec(t, invalidSpecYAML)
	watcher, err := NewWatcher(path, nil)
	require.NoError(t, err)

	err = watcher.Start(context.Background())
	require.Error(t, err)
}

func TestWatcher_ReloadOnChange(t *testing.T) {
	t.Parallel()

	path := writeSpec(t, validSpecYAML)

	var reloads atomic.Int64
	var lastPrefix atomic.Value
	callback := func(f *File) {
		lastPrefix.Store(f.Specs[0].Prefix)
		reloads.Add(1)
	}

	watcher, err := NewWatcher(path, callback,
		WithDebounceDelay(10*time.Millisecond),
	)
	require.NoError(t, err)

	require.NoError(t, watcher.Start(context.Background()))
	defer func() { require.NoError(t, watcher.Stop()) }()

	require.NoError(t, os.WriteFile(path, []byte(updatedSpecYAML), 0644))

	require.Eventually(t, func() bool {
		return reloads.Load() > 0
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, "/api/v2", lastPrefix.Load())
	assert.Equal(t, "/api/v2", watcher.GetLastFile().Specs[0].Prefix)
}

func TestWatcher_InvalidChangeKeepsLastFile(t *testing.T) {
	t.Parallel()

	path := writeSpec(t, validSpecYAML)

	var errCount atomic.Int64
	watcher, err := NewWatcher(path, func(f *File) {},
		WithDebounceDelay(10*time.Millisecond),
		WithErrorCallback(func(err error) { errCount.Add(1) }),
	)
	require.NoError(t, err)

	require.NoError(t, watcher.Start(context.Background()))
	defer func() { require.NoError(t, watcher.Stop()) }()

	require.NoError(t, os.WriteFile(path, []byte(invalidSpecYAML), 0644))

	require.Eventually(t, func() bool {
		return errCount.Load() > 0
	}, 3*time.Second, 10*time.Millisecond)

	// The last good document keeps serving.
	assert.Equal(t, "/api/v1", watcher.GetLastFile().Specs[0].Prefix)
}

func TestWatcher_StopAfterFailedStart(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "absent.yaml")
	watcher, err := NewWatcher(path, nil)
	require.NoError(t, err)

	require.Error(t, watcher.Start(context.Background()))

	// No watch goroutine exists after a failed Start; Stop must
	// return immediately instead of waiting for one.
	done := make(chan error, 1)
	go func() { done <- watcher.Stop() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after failed Start")
	}

	// Once the file exists, a retried Start must actually start.
	require.NoError(t, os.WriteFile(path, []byte(validSpecYAML), 0644))
	require.NoError(t, watcher.Start(context.Background()))
	require.NotNil(t, watcher.GetLastFile())
	require.NoError(t, watcher.Stop())
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	path := writeSpec(t, validSpecYAML)
	watcher, err := NewWatcher(path, nil)
	require.NoError(t, err)

	require.NoError(t, watcher.Start(context.Background()))
	require.NoError(t, watcher.Stop())
	require.NoError(t, watcher.Stop())
}

func TestWatcher_ForceReload(t *testing.T) {
	t.Parallel()

	path := writeSpec(t, validSpecYAML)

	var reloads atomic.Int64
	watcher, err := NewWatcher(path, func(f *File) { reloads.Add(1) })
	require.NoError(t, err)

	require.NoError(t, watcher.ForceReload())
	assert.Equal(t, int64(1), reloads.Load())
	require.NotNil(t, watcher.GetLastFile())

	require.NoError(t, os.WriteFile(path, []byte(invalidSpecYAML), 0644))
	require.Error(t, watcher.ForceReload())
}
