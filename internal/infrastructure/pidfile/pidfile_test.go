package pidfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/pidfile"
)

func TestAcquire_WritesCurrentPID(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "run", "utility.pid")
	pf := pidfile.New(path)

	// Act
	err := pf.Acquire()

	// Assert
	require.NoError(t, err)
	pid, err := pf.Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, pf.Release())
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestAcquire_LiveOwnerBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utility.pid")
	// the parent process is alive for the duration of the test
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())), 0o644))

	err := pidfile.New(path).Acquire()

	var running *pidfile.AlreadyRunningError
	require.True(t, errors.As(err, &running))
	assert.Equal(t, os.Getppid(), running.PID)
}

func TestAcquire_ReplacesStaleFiles(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"garbage", "not-a-pid"},
		{"dead process", "999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "utility.pid")
			require.NoError(t, os.WriteFile(path, []byte(tt.contents), 0o644))
			pf := pidfile.New(path)

			require.NoError(t, pf.Acquire())

			pid, err := pf.Read()
			require.NoError(t, err)
			assert.Equal(t, os.Getpid(), pid)
		})
	}
}

func TestRelease_LeavesForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utility.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())), 0o644))

	require.NoError(t, pidfile.New(path).Release())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestTerminateExisting_NothingToDo(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, pidfile.New(filepath.Join(dir, "absent.pid")).TerminateExisting(time.Second))

	own := pidfile.New(filepath.Join(dir, "own.pid"))
	require.NoError(t, own.Acquire())
	assert.NoError(t, own.TerminateExisting(time.Second))
}
