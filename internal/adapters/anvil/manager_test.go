package anvil

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
)

type rpcRequest struct {
	Jsonrpc string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	ID      json.RawMessage `json:"id"`
}

type rpcResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result"`
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(&config.RuntimeConfig{DataDir: t.TempDir()}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newMockRPCServer answers eth_chainId with chainID
func newMockRPCServer(t *testing.T, chainID string) (*httptest.Server, int) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		assert.Equal(t, "eth_chainId", req.Method)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rpcResponse{Jsonrpc: "2.0", ID: req.ID, Result: chainID})
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	p, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return server, p
}

func TestBuildArgs(t *testing.T) {
	assert.Equal(t, []string{"--port", "8545", "--host", "127.0.0.1"}, buildArgs(domain.Devnet{Name: "local"}))
	assert.Equal(t,
		[]string{"--port", "9000", "--host", "127.0.0.1", "--chain-id", "31338"},
		buildArgs(domain.Devnet{Name: "second", Port: 9000, ChainID: 31338}))
}

func TestPaths(t *testing.T) {
	m := newTestManager(t)
	d := domain.Devnet{Name: "local", Port: 9000}

	assert.Equal(t, "http://127.0.0.1:9000", RPCURL(d))
	assert.Equal(t, filepath.Join(m.dir, "local.log"), m.LogPath(d))
	assert.Equal(t, filepath.Join(m.dir, "local.pid"), m.pidPath(d))
}

func TestStatus_NotRunning(t *testing.T) {
	m := newTestManager(t)

	status, err := m.Status(context.Background(), domain.Devnet{Name: "local"})
	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.Equal(t, "http://127.0.0.1:8545", status.RPCURL)
}

func TestStatus_StalePIDFileRemoved(t *testing.T) {
	m := newTestManager(t)
	d := domain.Devnet{Name: "local"}
	require.NoError(t, os.MkdirAll(m.dir, 0755))
	require.NoError(t, os.WriteFile(m.pidPath(d), []byte("not-a-pid"), 0644))

	status, err := m.Status(context.Background(), d)
	require.NoError(t, err)
	assert.False(t, status.Running)

	_, err = os.Stat(m.pidPath(d))
	assert.True(t, os.IsNotExist(err))
}

func TestStatus_RunningAndHealthy(t *testing.T) {
	m := newTestManager(t)
	_, p := newMockRPCServer(t, "0x7a69")
	d := domain.Devnet{Name: "local", Port: p, ChainID: 31337}

	// the test process stands in for anvil
	require.NoError(t, os.MkdirAll(m.dir, 0755))
	require.NoError(t, os.WriteFile(m.pidPath(d), []byte(strconv.Itoa(os.Getpid())), 0644))

	status, err := m.Status(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, status.Running)
	assert.Equal(t, os.Getpid(), status.PID)
	assert.True(t, status.RPCHealthy)
}

func TestStart_AlreadyRunning(t *testing.T) {
	m := newTestManager(t)
	d := domain.Devnet{Name: "local"}
	require.NoError(t, os.MkdirAll(m.dir, 0755))
	require.NoError(t, os.WriteFile(m.pidPath(d), []byte(strconv.Itoa(os.Getpid())), 0644))

	err := m.Start(context.Background(), d)
	assert.ErrorContains(t, err, "already running")
}

func TestStart_MissingBinary(t *testing.T) {
	m := newTestManager(t)
	m.binary = "detdeploy-no-such-anvil"

	err := m.Start(context.Background(), domain.Devnet{Name: "local"})
	assert.ErrorContains(t, err, "failed to start anvil")
}

func TestStop_NotRunning(t *testing.T) {
	m := newTestManager(t)
	assert.NoError(t, m.Stop(context.Background(), domain.Devnet{Name: "local"}))
}

func TestChainID(t *testing.T) {
	server, _ := newMockRPCServer(t, "0x7a6a")
	id, err := chainID(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, uint64(31338), id)
}
