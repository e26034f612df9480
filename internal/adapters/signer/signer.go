package signer

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/cosmos/go-bip39"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	hdwallet "github.com/stephenlacy/go-ethereum-hdwallet"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
)

// DerivationPathFormat is the standard Ethereum account path
const DerivationPathFormat = "m/44'/60'/0'/0/%d"

// Identity is an address plus the key that signs for it
type Identity struct {
	Address common.Address
	key     *ecdsa.PrivateKey
}

// TransactOpts builds a keyed transactor for chainID
func (i *Identity) TransactOpts(chainID *big.Int) (*bind.TransactOpts, error) {
	return bind.NewKeyedTransactorWithChainID(i.key, chainID)
}

// PrivateKey exposes the signing key
func (i *Identity) PrivateKey() *ecdsa.PrivateKey {
	return i.key
}

// FromPrivateKey parses a hex private key, with or without 0x
func FromPrivateKey(hexKey string) (*Identity, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &Identity{Address: crypto.PubkeyToAddress(key.PublicKey), key: key}, nil
}

// FromMnemonic derives the account at index from a BIP-39 mnemonic
func FromMnemonic(words string, index uint32) (*Identity, error) {
	words = strings.Join(strings.Fields(words), " ")
	if !bip39.IsMnemonicValid(words) {
		return nil, fmt.Errorf("invalid mnemonic")
	}

	wallet, err := hdwallet.NewFromMnemonic(words)
	if err != nil {
		return nil, fmt.Errorf("failed to open mnemonic: %w", err)
	}

	path, err := hdwallet.ParseDerivationPath(fmt.Sprintf(DerivationPathFormat, index))
	if err != nil {
		return nil, err
	}
	account, err := wallet.Derive(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to derive account %d: %w", index, err)
	}
	key, err := wallet.PrivateKey(account)
	if err != nil {
		return nil, err
	}

	return &Identity{Address: account.Address, key: key}, nil
}

// FromWallet produces the signer for a configured wallet
func FromWallet(name string, w config.WalletConfig) (*Identity, error) {
	field := "wallets." + name
	switch w.Type {
	case config.WalletMnemonic:
		if strings.TrimSpace(w.Words) == "" {
			return nil, domain.NewConfigError(field, "mnemonic not configured")
		}
		id, err := FromMnemonic(w.Words, w.Index)
		if err != nil {
			return nil, domain.NewConfigError(field, "%v", err)
		}
		return id, nil
	case config.WalletPrivateKey:
		if strings.TrimSpace(w.Key) == "" {
			return nil, domain.NewConfigError(field, "private key not configured")
		}
		id, err := FromPrivateKey(w.Key)
		if err != nil {
			return nil, domain.NewConfigError(field, "%v", err)
		}
		return id, nil
	default:
		return nil, domain.NewConfigError(field, "unsupported wallet type %q", w.Type)
	}
}
