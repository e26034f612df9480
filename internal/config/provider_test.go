package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
)

const sampleConfig = `
[factory]
kind = "create3"
singleton = "create3-factory"

[bootstrap]
singletons = ["multicall3"]
timeout = "90s"

[verification]
source_prefix = "src/adapters"

[singletons.create3-factory]
raw_tx = "${FACTORY_RAW_TX}"

[networks.base]
rpc_url = "${BASE_RPC_URL}"

[networks.base.verification]
url = "https://api.etherscan.io/v2/api?chainid=8453"
api_key = "${ETHERSCAN_API_KEY}"
chain_id = 8453

[wallets.local]
type = "mnemonic"
words = "test test test test test test test test test test test junk"
index = 0

[wallets.deployer]
type = "private-key"
key = "${DEPLOYER_PRIVATE_KEY}"

[targets.base]
network = "base"
wallet = "deployer"

[targets.local1]
network = "devnet1"
wallet = "local"
chain = "foundry"
`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestLoadFileConfig(t *testing.T) {
	t.Run("decodes and expands environment", func(t *testing.T) {
		t.Setenv("BASE_RPC_URL", "https://base.example")
		t.Setenv("ETHERSCAN_API_KEY", "scan-key")
		t.Setenv("DEPLOYER_PRIVATE_KEY", "0xabc")
		t.Setenv("FACTORY_RAW_TX", "0xf8")

		dir := writeProject(t, map[string]string{ConfigFileName: sampleConfig})

		cfg, path, err := LoadFileConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, ConfigFileName), path)

		assert.Equal(t, config.FactoryCreate3, cfg.Factory.Kind)
		assert.Equal(t, 90*time.Second, cfg.Bootstrap.Timeout.Duration)
		assert.Equal(t, []string{"multicall3"}, cfg.Bootstrap.Singletons)
		assert.Equal(t, "https://base.example", cfg.Networks["base"].RPCURL)
		require.NotNil(t, cfg.Networks["base"].Verification)
		assert.Equal(t, "scan-key", cfg.Networks["base"].Verification.APIKey)
		assert.Equal(t, uint64(8453), cfg.Networks["base"].Verification.ChainID)
		assert.Equal(t, "0xabc", cfg.Wallets["deployer"].Key)
		assert.Equal(t, "0xf8", cfg.Singletons["create3-factory"].RawTx)
		assert.Equal(t, "foundry", cfg.Targets["local1"].Chain)
	})

	t.Run("dotenv fills missing variables only", func(t *testing.T) {
		t.Setenv("ETHERSCAN_API_KEY", "from-env")
		os.Unsetenv("DEPLOYER_PRIVATE_KEY")
		t.Cleanup(func() { os.Unsetenv("DEPLOYER_PRIVATE_KEY") })

		dir := writeProject(t, map[string]string{
			ConfigFileName: sampleConfig,
			".env":         "DEPLOYER_PRIVATE_KEY=0xfromdotenv\nETHERSCAN_API_KEY=from-dotenv\n",
		})

		cfg, _, err := LoadFileConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "0xfromdotenv", cfg.Wallets["deployer"].Key)
		assert.Equal(t, "from-env", cfg.Networks["base"].Verification.APIKey)
	})

	t.Run("missing file is empty config", func(t *testing.T) {
		cfg, path, err := LoadFileConfig(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.NotNil(t, cfg.Targets)
		assert.Empty(t, cfg.Targets)
	})

	t.Run("invalid toml", func(t *testing.T) {
		dir := writeProject(t, map[string]string{ConfigFileName: "[targets\n"})
		_, _, err := LoadFileConfig(dir)
		assert.ErrorContains(t, err, "failed to parse detdeploy.toml")
	})
}

func TestProvider(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		dir := writeProject(t, map[string]string{"foundry.toml": "[profile.default]\n"})

		v := viper.New()
		v.Set("project_root", dir)

		cfg, err := Provider(v)
		require.NoError(t, err)

		assert.Equal(t, dir, cfg.ProjectRoot)
		assert.Equal(t, filepath.Join(dir, ".detdeploy"), cfg.DataDir)
		assert.Equal(t, DefaultBootstrapTimeout, cfg.BootstrapTimeout)
		assert.Equal(t, DefaultConfirmTimeout, cfg.ConfirmTimeout)
		assert.Equal(t, filepath.Join(dir, "out"), cfg.OutDir)
		assert.Equal(t, filepath.Join(dir, "deployments.json"), cfg.LedgerPath)
		assert.Equal(t, "src", cfg.SourcePrefix)
		assert.Equal(t, "forge", cfg.VerifyCommand)
		assert.Equal(t, DefaultFactoryKind, cfg.File.Factory.Kind)
		assert.Equal(t, DefaultFactorySingleton, cfg.File.Factory.Singleton)
	})

	t.Run("flags override file", func(t *testing.T) {
		dir := writeProject(t, map[string]string{ConfigFileName: sampleConfig})

		v := viper.New()
		v.Set("project_root", dir)
		v.Set("target", "base")
		v.Set("rpc_url", "http://127.0.0.1:9999")
		v.Set("bootstrap_timeout", "5s")
		v.Set("ledger", "/tmp/ledger.json")

		cfg, err := Provider(v)
		require.NoError(t, err)

		assert.Equal(t, "base", cfg.Target)
		assert.Equal(t, "http://127.0.0.1:9999", cfg.RPCOverride)
		assert.Equal(t, 5*time.Second, cfg.BootstrapTimeout)
		assert.Equal(t, "/tmp/ledger.json", cfg.LedgerPath)
		assert.Equal(t, "src/adapters", cfg.SourcePrefix)
	})
}

func TestFindProjectRoot(t *testing.T) {
	dir := writeProject(t, map[string]string{ConfigFileName: ""})
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.Chdir(nested))

	root, err := FindProjectRoot()
	require.NoError(t, err)

	// macOS tempdirs resolve through /private
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(root)
	assert.Equal(t, want, got)
}
