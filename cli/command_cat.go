package cli

import (
	"context"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"

	"github.com/hostfs/hostfs/storage"
)

type commandCat struct {
	path string
}

func (c *commandCat) setup(a *App, app *kingpin.Application) {
	cmd := app.Command("cat", "Print the contents of a file.")
	cmd.Arg("path", "File to print, as <domain>/path").Required().StringVar(&c.path)
	cmd.Action(a.providerAction(func(ctx context.Context, p *storage.FileSystemProvider) error {
		return c.run(ctx, a, p)
	}))
}

func (c *commandCat) run(ctx context.Context, a *App, p *storage.FileSystemProvider) error {
	e, err := a.resolveEntry(ctx, p, c.path)
	if err != nil {
		return err
	}

	f, ok := e.(*storage.File)
	if !ok {
		return errors.Errorf("%v is not a file", c.path)
	}

	text, err := f.ReadText(ctx)
	if err != nil {
		return err
	}

	a.printStdout("%v", text)

	return nil
}
