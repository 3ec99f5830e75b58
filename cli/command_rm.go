package cli

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/hostfs/hostfs/storage"
)

type commandRemove struct {
	path string
}

func (c *commandRemove) setup(a *App, app *kingpin.Application) {
	cmd := app.Command("rm", "Delete an entry. Folders are deleted recursively.").Alias("delete")
	cmd.Arg("path", "Entry to delete, as <domain>/path").Required().StringVar(&c.path)
	cmd.Action(a.providerAction(func(ctx context.Context, p *storage.FileSystemProvider) error {
		return c.run(ctx, a, p)
	}))
}

func (c *commandRemove) run(ctx context.Context, a *App, p *storage.FileSystemProvider) error {
	e, err := a.resolveEntry(ctx, p, c.path)
	if err != nil {
		return err
	}

	return e.Delete(ctx)
}
