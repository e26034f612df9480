package anvil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

const (
	// DefaultPort is used when a devnet does not set one
	DefaultPort = 8545

	startupTimeout = 10 * time.Second
	stopTimeout    = 5 * time.Second
)

// Manager runs anvil nodes in the background, tracking them with pid and log
// files under <data dir>/devnets
type Manager struct {
	dir    string
	binary string
	log    *slog.Logger
}

// NewManager creates a devnet manager
func NewManager(cfg *config.RuntimeConfig, log *slog.Logger) *Manager {
	return &Manager{
		dir:    filepath.Join(cfg.DataDir, "devnets"),
		binary: "anvil",
		log:    log.With("component", "AnvilManager"),
	}
}

func (m *Manager) pidPath(d domain.Devnet) string {
	return filepath.Join(m.dir, d.Name+".pid")
}

// LogPath is where the devnet's stdout and stderr go
func (m *Manager) LogPath(d domain.Devnet) string {
	return filepath.Join(m.dir, d.Name+".log")
}

// RPCURL is the local endpoint of the devnet
func RPCURL(d domain.Devnet) string {
	return fmt.Sprintf("http://127.0.0.1:%d", port(d))
}

func port(d domain.Devnet) int {
	if d.Port == 0 {
		return DefaultPort
	}
	return d.Port
}

func buildArgs(d domain.Devnet) []string {
	args := []string{"--port", strconv.Itoa(port(d)), "--host", "127.0.0.1"}
	if d.ChainID != 0 {
		args = append(args, "--chain-id", strconv.FormatUint(d.ChainID, 10))
	}
	return args
}

// Start launches anvil and waits until its RPC answers
func (m *Manager) Start(ctx context.Context, d domain.Devnet) error {
	if pid, ok := m.runningPID(d); ok {
		return fmt.Errorf("devnet %q is already running (PID %d)", d.Name, pid)
	}
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create devnet directory: %w", err)
	}

	logFile, err := os.Create(m.LogPath(d))
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(m.binary, buildArgs(d)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start anvil: %w", err)
	}

	pid := cmd.Process.Pid
	if err := os.WriteFile(m.pidPath(d), []byte(strconv.Itoa(pid)), 0644); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	m.log.Debug("anvil started", "devnet", d.Name, "pid", pid, "port", port(d))

	waitCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	err = retry.Do(
		func() error { _, err := chainID(waitCtx, RPCURL(d)); return err },
		retry.Context(waitCtx),
		retry.Attempts(0),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		_ = m.Stop(context.Background(), d)
		return fmt.Errorf("anvil did not become ready, see %s: %w", m.LogPath(d), err)
	}
	return nil
}

// Stop terminates the devnet. Stopping a devnet that is not running is not an error.
func (m *Manager) Stop(ctx context.Context, d domain.Devnet) error {
	pid, ok := m.runningPID(d)
	if !ok {
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		if err := process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	deadline := time.Now().Add(stopTimeout)
	for alive(pid) && time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	if alive(pid) {
		_ = process.Kill()
	}

	if err := os.Remove(m.pidPath(d)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	m.log.Debug("anvil stopped", "devnet", d.Name, "pid", pid)
	return nil
}

// Status reports whether the devnet process is alive and its RPC answers
func (m *Manager) Status(ctx context.Context, d domain.Devnet) (*domain.DevnetStatus, error) {
	status := &domain.DevnetStatus{
		RPCURL:  RPCURL(d),
		LogFile: m.LogPath(d),
	}
	pid, ok := m.runningPID(d)
	if !ok {
		return status, nil
	}
	status.Running = true
	status.PID = pid

	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if id, err := chainID(checkCtx, status.RPCURL); err == nil {
		status.RPCHealthy = true
		if d.ChainID != 0 && id != d.ChainID {
			m.log.Warn("devnet answers with an unexpected chain id", "devnet", d.Name, "expected", d.ChainID, "actual", id)
		}
	}
	return status, nil
}

// runningPID reads the pid file and drops it when the process is gone
func (m *Manager) runningPID(d domain.Devnet) (int, bool) {
	data, err := os.ReadFile(m.pidPath(d))
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || !alive(pid) {
		_ = os.Remove(m.pidPath(d))
		return 0, false
	}
	return pid, true
}

func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

func chainID(ctx context.Context, url string) (uint64, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return 0, err
	}
	defer client.Close()

	var id hexutil.Uint64
	if err := client.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

var _ usecase.DevnetManager = (*Manager)(nil)
