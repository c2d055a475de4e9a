package relay

import (
	"errors"
	"net"
	"os"
	"testing"

	ps "github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaisa2/student-productivity-help-app/internal/config"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func withProcess(t *testing.T, exe string) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		if exe == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
}

func TestLockfileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	withProcess(t, "studyflow")

	require.NoError(t, WriteLockfile(dir, &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8787}))

	url, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8787", url)

	require.NoError(t, RemoveLockfile(dir))
	_, err = Discover(dir)
	assert.ErrorIs(t, err, ErrNoRelay)
	assert.NoError(t, RemoveLockfile(dir), "removing a missing lockfile is not an error")
}

func TestDiscoverRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		exe     string
		noRelay bool
	}{
		{"malformed", "8787", "studyflow", false},
		{"bad port", "abc|123", "studyflow", false},
		{"port out of range", "70000|123", "studyflow", false},
		{"bad pid", "8787|x", "studyflow", false},
		{"dead process", "8787|123", "", true},
		{"other executable", "8787|123", "bash", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			withProcess(t, tt.exe)
			require.NoError(t, os.WriteFile(LockfilePath(dir), []byte(tt.content), 0600))

			_, err := Discover(dir)
			require.Error(t, err)
			assert.Equal(t, tt.noRelay, errors.Is(err, ErrNoRelay))
		})
	}
}

func TestWriteLockfileRequiresTCP(t *testing.T) {
	err := WriteLockfile(t.TempDir(), &net.UnixAddr{Name: "/tmp/x", Net: "unix"})
	assert.Error(t, err)
}

func TestForChat(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default().Relay

	withProcess(t, "studyflow")
	_, isLocal := ForChat(cfg, dir).(*Local)
	assert.True(t, isLocal, "no URL and no lockfile should run in-process")

	require.NoError(t, os.WriteFile(LockfilePath(dir), []byte("9000|42"), 0600))
	c, ok := ForChat(cfg, dir).(*Client)
	require.True(t, ok)
	assert.Equal(t, "http://127.0.0.1:9000", c.BaseURL())

	cfg.URL = "http://relay.example:8787/"
	c, ok = ForChat(cfg, dir).(*Client)
	require.True(t, ok)
	assert.Equal(t, "http://relay.example:8787", c.BaseURL())
}
