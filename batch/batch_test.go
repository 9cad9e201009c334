package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobs(n int) []Job {
	var out []Job
	for i := 0; i < n; i++ {
		out = append(out, Job{Name: string(rune('a' + i))})
	}
	return out
}

func TestRunRespectsLimit(t *testing.T) {
	var running, peak int32
	var mu sync.Mutex
	seen := map[string]bool{}

	err := Run(context.Background(), jobs(8), Options{Limit: 3}, func(ctx context.Context, job Job) error {
		n := atomic.AddInt32(&running, 1)
		defer atomic.AddInt32(&running, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		mu.Lock()
		seen[job.Name] = true
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 8)
	assert.LessOrEqual(t, int(peak), 3)
}

func TestRunReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(context.Background(), jobs(4), Options{Limit: 1}, func(ctx context.Context, job Job) error {
		if job.Name == "b" {
			return boom
		}
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "b: ")
}

func TestRunCancelsRemaining(t *testing.T) {
	var calls int32
	err := Run(context.Background(), jobs(5), Options{Limit: 1}, func(ctx context.Context, job Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("fail")
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.JSON", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	got, err := Discover(dir, "out", "svg")
	require.NoError(t, err)
	assert.Equal(t, []Job{
		{Name: "a", Data: filepath.Join(dir, "a.JSON"), Output: filepath.Join("out", "a.svg")},
		{Name: "b", Data: filepath.Join(dir, "b.json"), Output: filepath.Join("out", "b.svg")},
	}, got)

	_, err = Discover(filepath.Join(dir, "missing"), "out", "svg")
	assert.Error(t, err)
}
