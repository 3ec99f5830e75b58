package cli

import (
	"context"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"

	"github.com/hostfs/hostfs/storage"
)

type commandMkdir struct {
	path string
}

func (c *commandMkdir) setup(a *App, app *kingpin.Application) {
	cmd := app.Command("mkdir", "Create a folder.")
	cmd.Arg("path", "Folder to create, as <domain>/path").Required().StringVar(&c.path)
	cmd.Action(a.providerAction(func(ctx context.Context, p *storage.FileSystemProvider) error {
		return c.run(ctx, a, p)
	}))
}

func (c *commandMkdir) run(ctx context.Context, a *App, p *storage.FileSystemProvider) error {
	dir, name := splitParent(c.path)
	if name == "" {
		return errors.Errorf("%v does not name a folder to create", c.path)
	}

	folder, err := a.resolveFolder(ctx, p, dir)
	if err != nil {
		return err
	}

	_, err = folder.CreateFolder(ctx, name, false)

	return err
}
