package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/detdeploy/internal/domain"
)

// DevnetRenderer renders devnet status
type DevnetRenderer struct {
	out io.Writer
}

// NewDevnetRenderer creates a new devnet renderer
func NewDevnetRenderer(out io.Writer) *DevnetRenderer {
	return &DevnetRenderer{out: out}
}

// RenderStatus prints whether the devnet runs and answers RPC
func (r *DevnetRenderer) RenderStatus(d domain.Devnet, status *domain.DevnetStatus) error {
	if status == nil || !status.Running {
		fmt.Fprintf(r.out, "%s devnet %s is not running\n", failStyle.Sprint("●"), nameStyle.Sprint(d.Name))
		return nil
	}

	fmt.Fprintf(r.out, "%s devnet %s is running\n", okStyle.Sprint("●"), nameStyle.Sprint(d.Name))
	fmt.Fprintf(r.out, "   %s %d\n", labelStyle.Sprint("PID:     "), status.PID)
	health := okStyle.Sprint("healthy")
	if !status.RPCHealthy {
		health = failStyle.Sprint("not responding")
	}
	fmt.Fprintf(r.out, "   %s %s (%s)\n", labelStyle.Sprint("RPC:     "), status.RPCURL, health)
	if d.ChainID != 0 {
		fmt.Fprintf(r.out, "   %s %d\n", labelStyle.Sprint("Chain ID:"), d.ChainID)
	}
	fmt.Fprintf(r.out, "   %s %s\n", labelStyle.Sprint("Logs:    "), status.LogFile)
	return nil
}

// RenderStopped confirms a stop
func (r *DevnetRenderer) RenderStopped(d domain.Devnet) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Stopped devnet %s", d.Name)))
	return nil
}
