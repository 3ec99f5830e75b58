package cli

import (
	"context"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/hostfs/hostfs/storage"
)

type commandList struct {
	path     string
	showMeta bool
}

func (c *commandList) setup(a *App, app *kingpin.Application) {
	cmd := app.Command("ls", "List entries of a folder.").Alias("list")
	cmd.Arg("path", "Folder to list, as <domain>[/path]").Required().StringVar(&c.path)
	cmd.Flag("long", "Show size and modification time").Short('l').BoolVar(&c.showMeta)
	cmd.Action(a.providerAction(func(ctx context.Context, p *storage.FileSystemProvider) error {
		return c.run(ctx, a, p)
	}))
}

func (c *commandList) run(ctx context.Context, a *App, p *storage.FileSystemProvider) error {
	folder, err := a.resolveFolder(ctx, p, c.path)
	if err != nil {
		return err
	}

	entries, err := folder.Entries(ctx)
	if err != nil {
		return err
	}

	for _, e := range entries {
		name := e.Name()
		if storage.IsFolder(e) {
			name = color.BlueString("%v/", name)
		}

		if !c.showMeta {
			a.printStdout("%v\n", name)
			continue
		}

		md, err := e.Metadata(ctx)
		if err != nil {
			return err
		}

		a.printStdout("%10v %v %v\n", md.Size, md.DateModified.Format("2006-01-02 15:04:05"), name)
	}

	return nil
}
