package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
	"github.com/trebuchet-org/detdeploy/internal/domain/models"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// ArtifactLoader reads Foundry artifacts from <out>/<File.sol>/<Contract>.json
type ArtifactLoader struct {
	outDir string
}

// NewArtifactLoader creates a loader rooted at the configured build output
func NewArtifactLoader(cfg *config.RuntimeConfig) *ArtifactLoader {
	return &ArtifactLoader{outDir: cfg.OutDir}
}

// Load finds the artifact for contractName. When contractPath is empty every
// source directory under the output dir is searched and the match must be unique.
func (l *ArtifactLoader) Load(contractPath, contractName string) (*models.Artifact, error) {
	if contractName == "" {
		return nil, fmt.Errorf("contract name is required")
	}

	path, err := l.locate(contractPath, contractName)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	return &artifact, nil
}

func (l *ArtifactLoader) locate(contractPath, contractName string) (string, error) {
	file := contractName + ".json"

	if contractPath != "" {
		path := filepath.Join(l.outDir, filepath.Base(contractPath), file)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("artifact for %s:%s not found at %s (run forge build): %w",
					contractPath, contractName, path, domain.ErrNotFound)
			}
			return "", err
		}
		return path, nil
	}

	matches, err := filepath.Glob(filepath.Join(l.outDir, "*", file))
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no artifact for %s under %s (run forge build): %w", contractName, l.outDir, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", fmt.Errorf("contract %s is ambiguous, pass its source path: %v", contractName, matches)
	}
}

var _ usecase.ArtifactLoader = (*ArtifactLoader)(nil)
