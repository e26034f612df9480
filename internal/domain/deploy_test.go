package domain

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSalt(t *testing.T) {
	t.Run("hex salt", func(t *testing.T) {
		s, err := ParseSalt("0x4445585f41444150544552000000000000000000000000000000000000001aff")
		require.NoError(t, err)
		assert.Equal(t, "0x4445585f41444150544552000000000000000000000000000000000000001aff", s.Hex())
	})

	t.Run("label is hashed", func(t *testing.T) {
		s, err := ParseSalt("dex-adapter-v1")
		require.NoError(t, err)
		assert.Equal(t, crypto.Keccak256([]byte("dex-adapter-v1")), s[:])
	})

	t.Run("short hex rejected", func(t *testing.T) {
		_, err := ParseSalt("0x1234")
		assert.ErrorContains(t, err, "expected 32 bytes")
	})

	t.Run("bad hex rejected", func(t *testing.T) {
		_, err := ParseSalt("0xzz")
		assert.Error(t, err)
	})

	t.Run("empty rejected", func(t *testing.T) {
		_, err := ParseSalt("")
		assert.Error(t, err)
	})
}

func TestDeployRequestArgs(t *testing.T) {
	req := DeployRequest{
		ContractName: "DexAdapter",
		ContractPath: "DexAdapter.sol",
		Args: []ConstructorArg{
			{Type: "address", Value: "0x0000000000000000000000000000000000000001"},
			{Type: "uint256", Value: "42"},
		},
	}

	assert.Equal(t, []string{"address", "uint256"}, req.ArgTypes())
	assert.Equal(t, []string{"0x0000000000000000000000000000000000000001", "42"}, req.ArgValues())
	assert.Equal(t, "DexAdapter.sol:DexAdapter", req.FullyQualifiedName())
}
