package microlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_WatchSettings_AppliesInitialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logger.conf")
	assert.NoError(t, os.WriteFile(path, []byte("level: error\n"), 0o644))

	l := InitWithOutput(&FakeWriter{})
	sw, err := l.WatchSettings(path)
	assert.NoError(t, err)
	defer sw.Close()
	assert.Equal(t, LVL_ERROR, l.threshold())
}

func Test_WatchSettings_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logger.conf")
	assert.NoError(t, os.WriteFile(path, []byte("level: error\n"), 0o644))

	l := InitWithOutput(&FakeWriter{})
	sw, err := l.WatchSettings(path)
	assert.NoError(t, err)
	defer sw.Close()

	assert.NoError(t, os.WriteFile(path, []byte("level: debug\nflags: level\n"), 0o644))
	assert.Eventually(t, func() bool {
		return l.threshold() == LVL_DEBUG
	}, 3*time.Second, 10*time.Millisecond, "settings change was not picked up")
}

func Test_WatchSettings_RenameOverReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logger.conf")
	assert.NoError(t, os.WriteFile(path, []byte("level: error\n"), 0o644))

	l := InitWithOutput(&FakeWriter{})
	sw, err := l.WatchSettings(path)
	assert.NoError(t, err)
	defer sw.Close()
	assert.Equal(t, LVL_ERROR, l.threshold())

	// Atomic-save pattern: write a temp file and rename it over the
	// watched path, replacing the inode the watch was armed on.
	tmp := filepath.Join(dir, "logger.conf.tmp")
	assert.NoError(t, os.WriteFile(tmp, []byte("level: debug\n"), 0o644))
	assert.NoError(t, os.Rename(tmp, path))
	assert.Eventually(t, func() bool {
		return l.threshold() == LVL_DEBUG
	}, 3*time.Second, 10*time.Millisecond, "rename-over settings change was never applied")

	// The watch must survive the replacement: a later in-place write
	// still reloads.
	assert.NoError(t, os.WriteFile(path, []byte("level: warn\n"), 0o644))
	assert.Eventually(t, func() bool {
		return l.threshold() == LVL_WARN
	}, 3*time.Second, 10*time.Millisecond, "watch did not survive the rename-over")
}

func Test_WatchSettings_InitialLoadFailureAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logger.conf")
	assert.NoError(t, os.WriteFile(path, []byte("level: loud\n"), 0o644))

	l := InitWithOutput(&FakeWriter{})
	sw, err := l.WatchSettings(path)
	assert.ErrorIs(t, err, ErrUnknownLevel)
	assert.Nil(t, sw)
}

func Test_WatchSettings_MissingFile(t *testing.T) {
	l := InitWithOutput(&FakeWriter{})
	sw, err := l.WatchSettings(filepath.Join(t.TempDir(), "absent.conf"))
	assert.ErrorIs(t, err, ErrOpenFile)
	assert.Nil(t, sw)
}

func Test_WatchSettings_NilLogger(t *testing.T) {
	var l *Logger
	sw, err := l.WatchSettings("whatever")
	assert.ErrorIs(t, err, ErrLoggerNil)
	assert.Nil(t, sw)
}
