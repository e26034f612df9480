package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BytecodeObject represents bytecode information in a Foundry artifact
type BytecodeObject struct {
	Object         string         `json:"object"`
	LinkReferences map[string]any `json:"linkReferences"`
}

// Artifact represents a Foundry compilation artifact
type Artifact struct {
	ABI      json.RawMessage  `json:"abi"`
	Bytecode BytecodeObject   `json:"bytecode"`
	Metadata ArtifactMetadata `json:"metadata"`
}

// ArtifactMetadata is the part of the solc metadata we read
type ArtifactMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
}

// CreationCode decodes the creation bytecode.
// Unlinked library placeholders make the object invalid hex and are reported as such.
func (a *Artifact) CreationCode() ([]byte, error) {
	obj := strings.TrimSpace(a.Bytecode.Object)
	if obj == "" || obj == "0x" {
		return nil, fmt.Errorf("artifact has no creation bytecode")
	}
	if !strings.HasPrefix(obj, "0x") {
		obj = "0x" + obj
	}
	if strings.Contains(obj, "__$") {
		return nil, fmt.Errorf("artifact bytecode has unlinked libraries")
	}
	code, err := hexutil.Decode(obj)
	if err != nil {
		return nil, fmt.Errorf("invalid creation bytecode: %w", err)
	}
	return code, nil
}
