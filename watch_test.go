package devsite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchRebuildsOnChange(t *testing.T) {
	a := newTestApp(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, 20*time.Millisecond) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	countPosts := func() int {
		posts, err := a.Cache.ListPosts(context.Background())
		if err != nil {
			return -1
		}
		return len(posts)
	}
	require.Equal(t, 3, countPosts())

	// The watcher registers asynchronously; keep touching the file until a
	// rebuild lands.
	fresh := filepath.Join(a.Config.ContentDir, "fresh.md")
	body := []byte("---\ntitle: Fresh\npublishedTime: 2025-06-01\n---\nNew.\n")
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(fresh, body, 0o644)
		return countPosts() == 4
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, os.Remove(fresh))
	assert.Eventually(t, func() bool { return countPosts() == 3 }, 5*time.Second, 50*time.Millisecond)
}

func TestWatchStopsOnCancel(t *testing.T) {
	a := newTestApp(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
