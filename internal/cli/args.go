package cli

import (
	"fmt"
	"strings"

	"github.com/trebuchet-org/detdeploy/internal/domain"
)

// parseArgs turns repeated --arg type=value flags into constructor arguments.
// Only the first '=' splits, so values may contain '='.
func parseArgs(raw []string) ([]domain.ConstructorArg, error) {
	args := make([]domain.ConstructorArg, 0, len(raw))
	for _, a := range raw {
		typ, value, ok := strings.Cut(a, "=")
		typ = strings.TrimSpace(typ)
		if !ok || typ == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected <type>=<value>", a)
		}
		args = append(args, domain.ConstructorArg{Type: typ, Value: value})
	}
	return args, nil
}

// splitContract accepts either Name or path/To/File.sol:Name
func splitContract(ref, path string) (string, string) {
	if i := strings.LastIndex(ref, ":"); i > 0 {
		return ref[i+1:], ref[:i]
	}
	return ref, path
}
