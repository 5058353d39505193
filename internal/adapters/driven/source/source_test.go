package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scanlog/internal/core/domain"
)

func collect(t *testing.T, ch <-chan string) []string {
	t.Helper()
	var out []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case p, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, p)
		case <-timeout:
			t.Fatal("source did not close")
		}
	}
}

func next(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p, ok := <-ch:
		require.True(t, ok, "source closed")
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for payload")
	}
	return ""
}

func TestStreamSource_Lines(t *testing.T) {
	src := NewStreamSource(strings.NewReader("https://a.com\r\n\n  \nWIFI:S:HomeNet;T:WPA;P:secret;;\nhttps://a.com"))
	assert.Equal(t, domain.SourceModeStream, src.Mode())

	events, err := src.Events(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://a.com",
		"WIFI:S:HomeNet;T:WPA;P:secret;;",
		"https://a.com",
	}, collect(t, events))
}

func TestStreamSource_SingleUse(t *testing.T) {
	src := NewStreamSource(strings.NewReader(""))

	_, err := src.Events(context.Background())
	require.NoError(t, err)
	_, err = src.Events(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestStreamSource_CancelWhileReadBlocked(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	src := NewStreamSource(r)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := src.Events(ctx)
	require.NoError(t, err)

	go func() { _, _ = w.Write([]byte("first\n")) }()
	assert.Equal(t, "first", next(t, events))

	cancel()
	assert.Empty(t, collect(t, events))
}

func TestGallerySource(t *testing.T) {
	src := NewGallerySource("a", "a", "b")
	assert.Equal(t, domain.SourceModeGallery, src.Mode())

	events, err := src.Events(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "a", "b"}, collect(t, events))
}

func TestGallerySource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events, err := NewGallerySource("a", "b").Events(ctx)
	require.NoError(t, err)

	// Cancellation may race the first send; nothing beyond it is emitted.
	assert.LessOrEqual(t, len(collect(t, events)), 1)
}

func TestInboxSource_ImportsExistingThenNewFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("https://b.com\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("https://a.com"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("secret"), 0600))

	src := NewInboxSource(dir)
	assert.Equal(t, domain.SourceModeGallery, src.Mode())
	assert.Equal(t, dir, src.Dir())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := src.Events(ctx)
	require.NoError(t, err)

	assert.Equal(t, "https://a.com", next(t, events))
	assert.Equal(t, "https://b.com", next(t, events))
	assert.NoFileExists(t, filepath.Join(dir, "a.txt"))
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "b.txt"))
		return os.IsNotExist(err)
	}, time.Second, 5*time.Millisecond)
	assert.FileExists(t, filepath.Join(dir, ".hidden"))

	// Drop a finished file in by rename.
	staging := t.TempDir()
	tmp := filepath.Join(staging, "c.txt")
	require.NoError(t, os.WriteFile(tmp, []byte("tel:+15550100"), 0600))
	require.NoError(t, os.Rename(tmp, filepath.Join(dir, "c.txt")))

	assert.Equal(t, "tel:+15550100", next(t, events))

	cancel()
	collect(t, events)
}

func TestInboxSource_MissingDir(t *testing.T) {
	_, err := NewInboxSource(filepath.Join(t.TempDir(), "missing")).Events(context.Background())
	assert.Error(t, err)
}

func TestInboxSource_NotADir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	_, err := NewInboxSource(file).Events(context.Background())
	assert.Error(t, err)
}

func TestInboxSource_HandleFsEvent(t *testing.T) {
	src := NewInboxSource("/inbox")

	tests := []struct {
		name string
		op   fsnotify.Op
		path string
		want bool
	}{
		{"create", fsnotify.Create, "/inbox/a.txt", true},
		{"write", fsnotify.Write, "/inbox/a.txt", true},
		{"remove", fsnotify.Remove, "/inbox/a.txt", false},
		{"rename", fsnotify.Rename, "/inbox/a.txt", false},
		{"chmod", fsnotify.Chmod, "/inbox/a.txt", false},
		{"hidden create", fsnotify.Create, "/inbox/.a.swp", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := src.handleFsEvent(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, tt.path, path)
			}
		})
	}
}

func TestInboxSource_ConsumeSkipsEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	_, ok := NewInboxSource(dir).read(path)

	assert.False(t, ok)
	assert.FileExists(t, path)
}

func TestInboxSource_ReadDiscardsBlankFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blank.txt")
	require.NoError(t, os.WriteFile(path, []byte("\r\n"), 0600))

	_, ok := NewInboxSource(dir).read(path)

	assert.False(t, ok)
	assert.NoFileExists(t, path)
}

func TestInboxSource_CancelledBeforeHandoffKeepsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("https://a.com"), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	events, err := NewInboxSource(dir).Events(ctx)
	require.NoError(t, err)

	// Nobody receives, so the payload is never handed over.
	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, collect(t, events))
	assert.FileExists(t, path)

	// The next import picks it up.
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	events, err = NewInboxSource(dir).Events(ctx2)
	require.NoError(t, err)
	assert.Equal(t, "https://a.com", next(t, events))
}
