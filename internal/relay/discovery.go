package relay

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/chaisa2/student-productivity-help-app/internal/chat"
	"github.com/chaisa2/student-productivity-help-app/internal/config"
	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrNoRelay is returned by Discover when no live relay lockfile exists.
var ErrNoRelay = errors.New("studyflow relay is not running")

// LockfilePath returns the relay lockfile location inside configDir.
func LockfilePath(configDir string) string {
	return filepath.Join(configDir, constants.RelayLockfileName)
}

// WriteLockfile records the listening port and the current PID as "port|pid".
func WriteLockfile(configDir string, addr net.Addr) error {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return fmt.Errorf("relay is not listening on TCP: %s", addr)
	}
	content := fmt.Sprintf("%d|%d", tcp.Port, getpidFunc())
	if err := os.WriteFile(LockfilePath(configDir), []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write relay lockfile: %w", err)
	}
	return nil
}

func RemoveLockfile(configDir string) error {
	err := os.Remove(LockfilePath(configDir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Discover reads the lockfile and returns the relay base URL when the
// recorded process is still a running studyflow.
func Discover(configDir string) (string, error) {
	content, err := os.ReadFile(LockfilePath(configDir))
	if err != nil {
		return "", ErrNoRelay
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return "", errors.New("relay lockfile is malformed")
	}

	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", errors.New("invalid port number in relay lockfile")
	}
	if port < 1 || port > 65535 {
		return "", fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", errors.New("invalid process ID in relay lockfile")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", ErrNoRelay
	}
	if !strings.HasPrefix(process.Executable(), constants.RelayExecutableName) {
		return "", fmt.Errorf("process with PID %d is not studyflow (is %s)", pid, process.Executable())
	}

	return fmt.Sprintf("http://127.0.0.1:%d", port), nil
}

// ForChat picks the relay used by chat commands: the configured URL, else a
// discovered running relay, else an in-process Service.
func ForChat(cfg config.RelayConfig, configDir string) chat.Relay {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = constants.DefaultRelayTimeout
	}
	if cfg.URL != "" {
		logger.Debug("Using configured relay", "url", cfg.URL)
		return NewClient(cfg.URL, timeout)
	}
	if url, err := Discover(configDir); err == nil {
		logger.Debug("Using discovered relay", "url", url)
		return NewClient(url, timeout)
	} else if !errors.Is(err, ErrNoRelay) {
		logger.Warn("Ignoring relay lockfile", "error", err)
	}
	logger.Debug("Using in-process relay")
	return &Local{Service: NewService(cfg)}
}
