package singletons

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/samber/lo"
	"github.com/trebuchet-org/detdeploy/internal/adapters/chain"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// Well-known singleton names
const (
	Create2Proxy = "create2-proxy"
	Multicall3   = "multicall3"
)

// create2ProxyRawTx deploys the keyless CREATE2 proxy (salt || initcode calldata).
// It is pre-EIP-155 so it lands on any chain that accepts unprotected transactions.
const create2ProxyRawTx = "0xf8a58085174876e800830186a08080b853604580600e600039806000f350fe7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe03601600081602082378035828234f58015156039578182fd5b8082525050506014600cf31ba02222222222222222222222222222222222222222222222222222222222222222a02222222222222222222222222222222222222222222222222222222222222222"

// multicall3 is known by address; its raw transaction has to be configured
var multicall3 = domain.Singleton{
	Name:     Multicall3,
	Address:  common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11"),
	Sender:   common.HexToAddress("0x05f32B3cC3888453ff71B01135B34FF8e41263F2"),
	GasLimit: 1_000_000,
	GasPrice: big.NewInt(100 * params.GWei),
}

// ParseSingleton derives a singleton from its pre-signed deployment transaction
func ParseSingleton(name string, raw []byte) (*domain.Singleton, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("singleton %s: invalid raw transaction: %w", name, err)
	}
	if tx.To() != nil {
		return nil, fmt.Errorf("singleton %s: raw transaction is not a contract creation", name)
	}

	var signer types.Signer = types.HomesteadSigner{}
	if tx.Protected() {
		signer = types.LatestSignerForChainID(tx.ChainId())
	}
	sender, err := types.Sender(signer, tx)
	if err != nil {
		return nil, fmt.Errorf("singleton %s: cannot recover sender: %w", name, err)
	}

	return &domain.Singleton{
		Name:     name,
		Address:  crypto.CreateAddress(sender, tx.Nonce()),
		Sender:   sender,
		RawTx:    raw,
		GasLimit: tx.Gas(),
		GasPrice: tx.GasPrice(),
	}, nil
}

// Registry holds the singletons available to bootstrap
type Registry struct {
	singletons map[string]*domain.Singleton
}

// NewRegistry builds the registry from the built-ins and the configured singletons
func NewRegistry(cfg *config.RuntimeConfig) (*Registry, error) {
	r := &Registry{singletons: make(map[string]*domain.Singleton)}

	proxy, err := ParseSingleton(Create2Proxy, hexutil.MustDecode(create2ProxyRawTx))
	if err != nil {
		return nil, err
	}
	r.singletons[Create2Proxy] = proxy
	mc := multicall3
	r.singletons[Multicall3] = &mc

	if cfg == nil || cfg.File == nil {
		return r, nil
	}

	for name, sc := range cfg.File.Singletons {
		s, err := fromConfig(name, sc)
		if err != nil {
			return nil, err
		}
		if known, ok := r.singletons[name]; ok {
			if s.Address != known.Address || s.Sender != known.Sender {
				return nil, domain.NewConfigError("singletons."+name,
					"raw transaction deploys %s from %s, expected %s from %s",
					s.Address.Hex(), s.Sender.Hex(), known.Address.Hex(), known.Sender.Hex())
			}
		}
		r.singletons[name] = s
	}
	return r, nil
}

func fromConfig(name string, sc config.SingletonConfig) (*domain.Singleton, error) {
	field := "singletons." + name
	if strings.TrimSpace(sc.RawTx) == "" {
		return nil, domain.NewConfigError(field, "raw_tx not configured")
	}
	raw, err := hexutil.Decode(strings.TrimSpace(sc.RawTx))
	if err != nil {
		return nil, domain.NewConfigError(field, "raw_tx is not hex: %v", err)
	}
	s, err := ParseSingleton(name, raw)
	if err != nil {
		return nil, domain.NewConfigError(field, "%v", err)
	}
	if sc.Address != "" && common.HexToAddress(sc.Address) != s.Address {
		return nil, domain.NewConfigError(field, "raw transaction deploys to %s, not %s", s.Address.Hex(), sc.Address)
	}
	if sc.Sender != "" && common.HexToAddress(sc.Sender) != s.Sender {
		return nil, domain.NewConfigError(field, "raw transaction is signed by %s, not %s", s.Sender.Hex(), sc.Sender)
	}
	return s, nil
}

// Get returns a copy of the named singleton
func (r *Registry) Get(name string) (*domain.Singleton, error) {
	s, ok := r.singletons[name]
	if !ok {
		err := domain.NewConfigError("singletons."+name, "unknown singleton")
		if suggestions := chain.Suggest(name, r.names()); len(suggestions) > 0 {
			err.Msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(suggestions, ", "))
		}
		return nil, err
	}
	cp := *s
	return &cp, nil
}

// List returns all singletons sorted by name
func (r *Registry) List() []*domain.Singleton {
	return lo.Map(r.names(), func(name string, _ int) *domain.Singleton {
		cp := *r.singletons[name]
		return &cp
	})
}

func (r *Registry) names() []string {
	names := lo.Keys(r.singletons)
	sort.Strings(names)
	return names
}

var _ usecase.SingletonRegistry = (*Registry)(nil)
