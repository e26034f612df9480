package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Singleton is a contract deployed by a pre-signed, keyless transaction.
// Address is CREATE(Sender, 0), so it is the same on every chain that accepts RawTx.
type Singleton struct {
	Name     string
	Address  common.Address
	Sender   common.Address
	RawTx    []byte
	GasLimit uint64
	GasPrice *big.Int
}

// Required is the balance the sender needs to pay for RawTx
func (s *Singleton) Required() *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(s.GasLimit), s.GasPrice)
}

// Configured reports whether the raw transaction is known
func (s *Singleton) Configured() bool {
	return len(s.RawTx) > 0
}

// FundingAmount returns the transfer that tops up balance to required plus a 10% buffer
// on the shortfall. It returns nil when balance already covers required.
func FundingAmount(balance, required *big.Int) *big.Int {
	if balance.Cmp(required) >= 0 {
		return nil
	}
	shortfall := new(big.Int).Sub(required, balance)
	buffer := new(big.Int).Div(shortfall, big.NewInt(10))
	return shortfall.Add(shortfall, buffer)
}
