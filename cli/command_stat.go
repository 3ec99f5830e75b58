package cli

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/hostfs/hostfs/storage"
)

type commandStat struct {
	path string
}

func (c *commandStat) setup(a *App, app *kingpin.Application) {
	cmd := app.Command("stat", "Show metadata of an entry.")
	cmd.Arg("path", "Entry to inspect, as <domain>[/path]").Required().StringVar(&c.path)
	cmd.Action(a.providerAction(func(ctx context.Context, p *storage.FileSystemProvider) error {
		return c.run(ctx, a, p)
	}))
}

func (c *commandStat) run(ctx context.Context, a *App, p *storage.FileSystemProvider) error {
	e, err := a.resolveEntry(ctx, p, c.path)
	if err != nil {
		return err
	}

	md, err := e.Metadata(ctx)
	if err != nil {
		return err
	}

	u, err := p.FsURL(e)
	if err != nil {
		return err
	}

	a.printStdout("name:     %v\n", md.Name)
	a.printStdout("id:       %v\n", e.ID())
	a.printStdout("type:     %v\n", md.Type)
	a.printStdout("mode:     %v\n", md.Mode)
	a.printStdout("size:     %v\n", md.Size)
	a.printStdout("created:  %v\n", md.DateCreated.Format("2006-01-02 15:04:05"))
	a.printStdout("modified: %v\n", md.DateModified.Format("2006-01-02 15:04:05"))
	a.printStdout("url:      %v\n", u)

	if np, err := e.NativePath(); err == nil {
		a.printStdout("path:     %v\n", np)
	}

	return nil
}
