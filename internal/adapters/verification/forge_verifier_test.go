package verification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

type fakeRunner struct {
	exitCode int
	output   string
	err      error

	dir  string
	name string
	args []string
}

func (r *fakeRunner) Run(_ context.Context, dir string, name string, args ...string) (int, string, error) {
	r.dir, r.name, r.args = dir, name, args
	return r.exitCode, r.output, r.err
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		exitCode    int
		output      string
		wantSuccess bool
		wantError   string
	}{
		{name: "success marker beats exit code", exitCode: 1, output: "Contract Successfully Verified", wantSuccess: true},
		{name: "zero exit empty output", exitCode: 0, output: "", wantSuccess: true},
		{name: "failure keeps output", exitCode: 2, output: "rate limited", wantError: "rate limited"},
		{name: "already verified", exitCode: 1, output: "Error: Contract source code ALREADY VERIFIED", wantSuccess: true},
		{name: "verification successful", exitCode: 3, output: "status: Verification successful", wantSuccess: true},
		{name: "near miss", exitCode: 1, output: "verified? no", wantError: "verified? no"},
		{name: "failure without output", exitCode: 7, output: "", wantError: "verification failed with exit code 7"},
		{name: "whitespace output is kept verbatim", exitCode: 7, output: "  \n", wantError: "  \n"},
		{name: "full multi-line output", exitCode: 1, output: "Error: rate limited\nretry in 5s\n", wantError: "Error: rate limited\nretry in 5s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.exitCode, tt.output)
			assert.Equal(t, tt.wantSuccess, got.Success)
			assert.Equal(t, tt.output, got.Output)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got.Error)
			} else {
				assert.Empty(t, got.Error)
			}
		})
	}
}

func newTestVerifier(runner ProcessRunner) *ForgeVerifier {
	return NewForgeVerifier(&config.RuntimeConfig{
		ProjectRoot:   "/work/project",
		SourcePrefix:  "src",
		VerifyCommand: "forge",
	}, runner, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testRequest() usecase.SourceVerification {
	return usecase.SourceVerification{
		Address:         common.HexToAddress("0x48fa321c5d251c3eb062e5564cbe567d208d2ffa"),
		ContractName:    "Counter",
		ContractPath:    "Counter.sol",
		ConstructorArgs: []byte{0x00, 0x2a},
		Descriptor: domain.VerificationDescriptor{
			URL:      "https://api.etherscan.io/api",
			APIKey:   "KEY",
			ChainID:  11155111,
			Verifier: "etherscan",
		},
	}
}

func TestForgeVerifier_Command(t *testing.T) {
	v := newTestVerifier(&fakeRunner{})

	assert.Equal(t, []string{
		"forge", "verify-contract",
		"0x48FA321c5D251c3EB062E5564cBE567d208d2FFa",
		"src/Counter.sol:Counter",
		"--verifier-url", "https://api.etherscan.io/api",
		"--etherscan-api-key", "KEY",
		"--verifier", "etherscan",
		"--constructor-args", "002a",
		"--chain", "11155111",
	}, v.Command(testRequest()))

	t.Run("optional flags omitted", func(t *testing.T) {
		req := testRequest()
		req.ConstructorArgs = nil
		req.Descriptor.ChainID = 0
		req.Descriptor.Verifier = ""
		cmd := v.Command(req)
		assert.NotContains(t, cmd, "--verifier")
		assert.NotContains(t, cmd, "--constructor-args")
		assert.NotContains(t, cmd, "--chain")
	})
}

func TestForgeVerifier_ContractIdentifier(t *testing.T) {
	v := newTestVerifier(&fakeRunner{})

	tests := []struct {
		name       string
		path       string
		sourceRoot string
		want       string
	}{
		{name: "prefix applied", path: "Counter.sol", want: "src/Counter.sol:Counter"},
		{name: "nested path", path: "adapters/Counter.sol", want: "src/adapters/Counter.sol:Counter"},
		{name: "already prefixed", path: "src/Counter.sol", want: "src/Counter.sol:Counter"},
		{name: "source root override", path: "Counter.sol", sourceRoot: "src/depositors", want: "src/depositors/Counter.sol:Counter"},
		{name: "no path", path: "", want: "src/Counter.sol:Counter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest()
			req.ContractPath = tt.path
			req.SourceRoot = tt.sourceRoot
			assert.Equal(t, tt.want, v.ContractIdentifier(req))
		})
	}
}

func TestForgeVerifier_Verify(t *testing.T) {
	t.Run("runs in project root", func(t *testing.T) {
		runner := &fakeRunner{exitCode: 1, output: "Contract successfully verified"}
		res := newTestVerifier(runner).Verify(context.Background(), testRequest())

		assert.True(t, res.Success)
		assert.Equal(t, "/work/project", runner.dir)
		assert.Equal(t, "forge", runner.name)
		require.NotEmpty(t, runner.args)
		assert.Equal(t, "verify-contract", runner.args[0])
	})

	t.Run("failure is reported not returned", func(t *testing.T) {
		runner := &fakeRunner{exitCode: 2, output: "rate limited"}
		res := newTestVerifier(runner).Verify(context.Background(), testRequest())
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "rate limited")
	})

	t.Run("spawn failure", func(t *testing.T) {
		runner := &fakeRunner{exitCode: -1, err: errors.New(`exec: "forge": executable file not found in $PATH`)}
		res := newTestVerifier(runner).Verify(context.Background(), testRequest())
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "failed to run forge")
	})
}

func TestExecRunner(t *testing.T) {
	r := NewExecRunner()

	code, out, err := r.Run(context.Background(), t.TempDir(), "sh", "-c", "echo already verified; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Contains(t, out, "already verified")

	_, _, err = r.Run(context.Background(), t.TempDir(), "detdeploy-no-such-binary")
	assert.Error(t, err)
}
