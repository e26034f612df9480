package domain

// LedgerOnChain is the on-chain part of a ledger record
type LedgerOnChain struct {
	Address         string `json:"address"`
	ConstructorArgs string `json:"constructorArgs"`
}

// LedgerRecord is one deployed contract as kept in the deployments ledger file
type LedgerRecord struct {
	Name               string        `json:"name"`
	FullyQualifiedName string        `json:"fullyQualifiedName"`
	Sender             string        `json:"sender"`
	TxHash             string        `json:"txHash"`
	OnChain            LedgerOnChain `json:"onChain"`
}

// TargetLedger is the set of records for one target
type TargetLedger struct {
	Contracts []LedgerRecord `json:"contracts"`
}

// PreexistingTxHash marks records for contracts that were already on chain
const PreexistingTxHash = "0x0"
