package chain

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/detdeploy/internal/adapters/signer"
	"github.com/trebuchet-org/detdeploy/internal/domain"
	"github.com/trebuchet-org/detdeploy/internal/domain/config"
	"github.com/trebuchet-org/detdeploy/internal/usecase"
)

// Provider resolves targets into connections from explicitly injected configuration
type Provider struct {
	cfg      *config.RuntimeConfig
	registry *Registry
	dial     Dialer
	log      *slog.Logger
}

// NewProvider creates a connection provider
func NewProvider(cfg *config.RuntimeConfig, registry *Registry, dial Dialer, log *slog.Logger) *Provider {
	return &Provider{
		cfg:      cfg,
		registry: registry,
		dial:     dial,
		log:      log,
	}
}

// chainFor finds the descriptor a target deploys to
func (p *Provider) chainFor(target string, tcfg config.TargetConfig) (domain.ChainDescriptor, error) {
	name := tcfg.Chain
	if name == "" {
		name = target
	}
	desc, ok := p.registry.Lookup(name)
	if !ok {
		candidates := append(p.registry.Names(), lo.Keys(p.cfg.File.Targets)...)
		return domain.ChainDescriptor{}, &domain.UnknownTargetError{
			Target:      name,
			Suggestions: Suggest(name, lo.Uniq(candidates)),
		}
	}
	return desc, nil
}

// rpcURL resolves the endpoint: override first, then target -> network -> rpc_url
func (p *Provider) rpcURL(target string, tcfg config.TargetConfig, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if p.cfg.RPCOverride != "" {
		return p.cfg.RPCOverride, nil
	}
	if tcfg.Network == "" {
		return "", domain.NewConfigError("targets."+target, "no network configured")
	}
	network, ok := p.cfg.File.Networks[tcfg.Network]
	if !ok {
		return "", domain.NewConfigError("networks."+tcfg.Network, "network not configured")
	}
	if network.RPCURL == "" {
		return "", domain.NewConfigError("networks."+tcfg.Network, "rpc_url not configured")
	}
	return network.RPCURL, nil
}

func (p *Provider) identity(target string, tcfg config.TargetConfig) (*signer.Identity, error) {
	if tcfg.Wallet == "" {
		return nil, domain.NewConfigError("targets."+target, "no wallet configured")
	}
	w, ok := p.cfg.File.Wallets[tcfg.Wallet]
	if !ok {
		return nil, domain.NewConfigError("wallets."+tcfg.Wallet, "wallet not configured")
	}
	return signer.FromWallet(tcfg.Wallet, w)
}

// verification maps the network's verification settings to a descriptor
func (p *Provider) verification(tcfg config.TargetConfig) *domain.VerificationDescriptor {
	network, ok := p.cfg.File.Networks[tcfg.Network]
	if !ok || network.Verification == nil || network.Verification.URL == "" {
		return nil
	}
	v := network.Verification
	return &domain.VerificationDescriptor{
		URL:      v.URL,
		APIKey:   v.APIKey,
		ChainID:  v.ChainID,
		Verifier: v.Verifier,
	}
}

// Resolve builds the read and signing clients for target.
// Nothing is sent to the node during resolution.
func (p *Provider) Resolve(ctx context.Context, target string, opts usecase.ResolveOptions) (*usecase.Connection, error) {
	if target == "" {
		return nil, domain.NewConfigError("target", "no target specified")
	}

	tcfg, configured := p.cfg.File.Targets[target]

	desc, err := p.chainFor(target, tcfg)
	if err != nil {
		return nil, err
	}
	if !configured {
		return nil, domain.NewConfigError("targets."+target, "target not configured")
	}

	rpcURL, err := p.rpcURL(target, tcfg, opts.RPCOverride)
	if err != nil {
		return nil, err
	}

	id, err := p.identity(target, tcfg)
	if err != nil {
		return nil, err
	}

	client, err := p.dial(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", RedactURL(rpcURL), err)
	}

	p.log.Debug("resolved target",
		slog.String("target", target),
		slog.String("chain", desc.Name),
		slog.Uint64("chain_id", desc.ChainID),
		slog.String("rpc", RedactURL(rpcURL)),
		slog.String("signer", id.Address.Hex()),
	)

	conn := &usecase.Connection{
		Target: domain.ChainTarget{
			Name:     target,
			Network:  tcfg.Network,
			ChainID:  desc.ChainID,
			RPCURL:   rpcURL,
			Currency: desc.Currency,
			Local:    desc.Local,
		},
		Reader:       client,
		Writer:       NewSigningClient(client, id, desc.ChainID),
		Confirmer:    NewWaiter(client, DefaultPollInterval),
		Verification: p.verification(tcfg),
		Close:        func() {},
	}
	if closer, ok := client.(interface{ Close() }); ok {
		conn.Close = closer.Close
	}
	return conn, nil
}

// Targets lists configured targets without connecting
func (p *Provider) Targets() []usecase.TargetInfo {
	names := lo.Keys(p.cfg.File.Targets)
	sort.Strings(names)

	return lo.Map(names, func(name string, _ int) usecase.TargetInfo {
		tcfg := p.cfg.File.Targets[name]
		info := usecase.TargetInfo{
			Name:     name,
			Network:  tcfg.Network,
			Verifies: p.verification(tcfg) != nil,
		}
		if desc, err := p.chainFor(name, tcfg); err != nil {
			info.Error = err.Error()
		} else {
			info.Chain = desc
		}
		if n, ok := p.cfg.File.Networks[tcfg.Network]; ok {
			info.RPCURL = RedactURL(n.RPCURL)
		}
		if w, ok := p.cfg.File.Wallets[tcfg.Wallet]; ok {
			info.WalletType = w.Type
		}
		return info
	})
}

// RedactURL keeps scheme and host so API keys in paths or queries are not logged
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	if (u.Path == "" || u.Path == "/") && u.RawQuery == "" && u.User == nil {
		return raw
	}
	return u.Scheme + "://" + u.Host + "/…"
}

var (
	_ usecase.ConnectionProvider = (*Provider)(nil)
	_ usecase.TargetCatalog      = (*Provider)(nil)
)
