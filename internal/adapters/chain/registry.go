package chain

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
)

var ether = domain.NativeCurrency{Symbol: "ETH", Decimals: 18}

// defaultChains are the chain descriptors known without configuration
var defaultChains = []domain.ChainDescriptor{
	{Name: "foundry", ChainID: 31337, Currency: ether, Local: true},
	{Name: "local2", ChainID: 31338, Currency: ether, Local: true},
	{Name: "mainnet", ChainID: 1, Currency: ether},
	{Name: "sepolia", ChainID: 11155111, Currency: ether},
	{Name: "base", ChainID: 8453, Currency: ether},
	{Name: "base-sepolia", ChainID: 84532, Currency: ether},
	{Name: "ronin", ChainID: 2020, Currency: domain.NativeCurrency{Symbol: "RON", Decimals: 18}},
	{Name: "saigon", ChainID: 2021, Currency: domain.NativeCurrency{Symbol: "RON", Decimals: 18}},
}

// Registry holds chain descriptors by name
type Registry struct {
	chains map[string]domain.ChainDescriptor
}

// NewRegistry creates a registry with the default chains plus configured ones
func NewRegistry(cfg *config.RuntimeConfig) *Registry {
	r := &Registry{chains: make(map[string]domain.ChainDescriptor)}
	for _, c := range defaultChains {
		r.add(c)
	}
	if cfg != nil && cfg.File != nil {
		for name, c := range cfg.File.Chains {
			desc := domain.ChainDescriptor{
				Name:     name,
				ChainID:  c.ChainID,
				Currency: domain.NativeCurrency{Symbol: c.Currency, Decimals: c.Decimals},
				Local:    c.Local,
			}
			if desc.Currency.Symbol == "" {
				desc.Currency = ether
			}
			if desc.Currency.Decimals == 0 {
				desc.Currency.Decimals = 18
			}
			r.add(desc)
		}
	}
	return r
}

func (r *Registry) add(c domain.ChainDescriptor) {
	r.chains[strings.ToLower(c.Name)] = c
}

// Lookup finds a descriptor by name, case-insensitively
func (r *Registry) Lookup(name string) (domain.ChainDescriptor, bool) {
	c, ok := r.chains[strings.ToLower(name)]
	return c, ok
}

// Names returns all registered chain names, sorted
func (r *Registry) Names() []string {
	names := lo.Keys(r.chains)
	sort.Strings(names)
	return names
}

// Suggest returns candidates that look like name, best first
func Suggest(name string, candidates []string) []string {
	var out []string
	for _, m := range fuzzy.Find(name, candidates) {
		out = append(out, m.Str)
	}
	// Catch typos that add characters, e.g. "basee" for "base"
	for _, c := range candidates {
		if len(fuzzy.Find(c, []string{name})) > 0 {
			out = append(out, c)
		}
	}
	out = lo.Uniq(out)
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}
