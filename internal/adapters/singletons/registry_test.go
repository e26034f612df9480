package singletons

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
)

// signedCreation signs a nonce-0 contract creation for chainID with a fresh key
func signedCreation(t *testing.T, chainID int64, nonce uint64) (string, common.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: big.NewInt(2_000_000_000),
		Gas:      200_000,
		Data:     []byte{0x60, 0x00, 0x60, 0x00, 0xf3},
	})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(big.NewInt(chainID)), key)
	require.NoError(t, err)

	raw, err := signed.MarshalBinary()
	require.NoError(t, err)
	return hexutil.Encode(raw), crypto.PubkeyToAddress(key.PublicKey)
}

func TestParseSingletonKeylessProxy(t *testing.T) {
	s, err := ParseSingleton(Create2Proxy, hexutil.MustDecode(create2ProxyRawTx))
	require.NoError(t, err)

	assert.Equal(t, common.HexToAddress("0x3fAB184622Dc19b6109349B94811493BF2a45362"), s.Sender)
	assert.Equal(t, common.HexToAddress("0x4e59b44847b379578588920cA78FbF26c0B4956C"), s.Address)
	assert.Equal(t, uint64(100000), s.GasLimit)
	assert.Equal(t, big.NewInt(100_000_000_000), s.GasPrice)
	// 100000 gas at 100 gwei
	assert.Equal(t, "10000000000000000", s.Required().String())
}

func TestParseSingletonProtected(t *testing.T) {
	raw, sender := signedCreation(t, 1337, 0)

	s, err := ParseSingleton("factory", hexutil.MustDecode(raw))
	require.NoError(t, err)
	assert.Equal(t, sender, s.Sender)
	assert.Equal(t, crypto.CreateAddress(sender, 0), s.Address)
	assert.Equal(t, uint64(200_000), s.GasLimit)
}

func TestParseSingletonRejectsCalls(t *testing.T) {
	key, _ := crypto.GenerateKey()
	to := common.HexToAddress("0x01")
	tx, err := types.SignTx(types.NewTx(&types.LegacyTx{To: &to, Gas: 21000, GasPrice: big.NewInt(1)}), types.HomesteadSigner{}, key)
	require.NoError(t, err)
	raw, _ := tx.MarshalBinary()

	_, err = ParseSingleton("call", raw)
	assert.ErrorContains(t, err, "not a contract creation")

	_, err = ParseSingleton("junk", []byte{0x01, 0x02})
	assert.ErrorContains(t, err, "invalid raw transaction")
}

func TestNewRegistry(t *testing.T) {
	t.Run("built-ins", func(t *testing.T) {
		r, err := NewRegistry(nil)
		require.NoError(t, err)

		proxy, err := r.Get(Create2Proxy)
		require.NoError(t, err)
		assert.True(t, proxy.Configured())

		mc, err := r.Get(Multicall3)
		require.NoError(t, err)
		assert.False(t, mc.Configured())
		assert.Equal(t, common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11"), mc.Address)

		assert.Len(t, r.List(), 2)
	})

	t.Run("configured singleton", func(t *testing.T) {
		raw, sender := signedCreation(t, 1337, 0)
		cfg := &config.RuntimeConfig{File: &config.FileConfig{
			Singletons: map[string]config.SingletonConfig{
				"create3-factory": {RawTx: raw, Sender: sender.Hex()},
			},
		}}

		r, err := NewRegistry(cfg)
		require.NoError(t, err)
		s, err := r.Get("create3-factory")
		require.NoError(t, err)
		assert.Equal(t, crypto.CreateAddress(sender, 0), s.Address)
	})

	t.Run("address mismatch rejected", func(t *testing.T) {
		raw, _ := signedCreation(t, 1337, 0)
		cfg := &config.RuntimeConfig{File: &config.FileConfig{
			Singletons: map[string]config.SingletonConfig{
				"factory": {RawTx: raw, Address: "0x0000000000000000000000000000000000000001"},
			},
		}}
		_, err := NewRegistry(cfg)
		assert.ErrorIs(t, err, domain.ErrConfig)
		assert.ErrorContains(t, err, "raw transaction deploys to")
	})

	t.Run("override of a well-known singleton must keep its address", func(t *testing.T) {
		raw, _ := signedCreation(t, 1337, 0)
		cfg := &config.RuntimeConfig{File: &config.FileConfig{
			Singletons: map[string]config.SingletonConfig{
				Multicall3: {RawTx: raw},
			},
		}}
		_, err := NewRegistry(cfg)
		assert.ErrorIs(t, err, domain.ErrConfig)
		assert.ErrorContains(t, err, "singletons.multicall3")
	})

	t.Run("missing raw tx", func(t *testing.T) {
		cfg := &config.RuntimeConfig{File: &config.FileConfig{
			Singletons: map[string]config.SingletonConfig{"factory": {}},
		}}
		_, err := NewRegistry(cfg)
		assert.ErrorContains(t, err, "raw_tx not configured")
	})

	t.Run("unknown singleton suggests", func(t *testing.T) {
		r, err := NewRegistry(nil)
		require.NoError(t, err)
		_, err = r.Get("multicall")
		assert.ErrorIs(t, err, domain.ErrConfig)
		assert.ErrorContains(t, err, "did you mean multicall3")
	})

	t.Run("get returns a copy", func(t *testing.T) {
		r, err := NewRegistry(nil)
		require.NoError(t, err)
		s, _ := r.Get(Create2Proxy)
		s.GasLimit = 1
		again, _ := r.Get(Create2Proxy)
		assert.Equal(t, uint64(100000), again.GasLimit)
	})
}
