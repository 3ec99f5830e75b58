package cli

import (
	"context"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/hostfs/hostfs/storage"
)

type commandDomains struct{}

func (c *commandDomains) setup(a *App, app *kingpin.Application) {
	cmd := app.Command("domains", "List supported storage domains and their roots.")
	cmd.Action(a.providerAction(func(ctx context.Context, p *storage.FileSystemProvider) error {
		return c.run(ctx, a, p)
	}))
}

func (c *commandDomains) run(ctx context.Context, a *App, p *storage.FileSystemProvider) error {
	supported := map[storage.Domain]bool{}
	for _, d := range p.SupportedDomains() {
		supported[d] = true
	}

	for _, d := range storage.AllDomains() {
		if !supported[d] {
			a.printStdout("%-20v %v\n", d, color.YellowString("(not supported)"))
			continue
		}

		root, err := p.Backend().DomainRoot(d)
		if err != nil {
			return err
		}

		a.printStdout("%-20v %v\n", color.GreenString("%v", d), root)
	}

	return nil
}
