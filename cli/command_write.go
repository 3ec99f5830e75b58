package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"

	"github.com/hostfs/hostfs/storage"
)

type commandWrite struct {
	path     string
	data     string
	appendTo bool
}

func (c *commandWrite) setup(a *App, app *kingpin.Application) {
	cmd := app.Command("write", "Write data to a file, creating it as needed. Reads stdin when no data argument is given.")
	cmd.Arg("path", "File to write, as <domain>/path").Required().StringVar(&c.path)
	cmd.Arg("data", "Data to write").StringVar(&c.data)
	cmd.Flag("append", "Append instead of replacing").BoolVar(&c.appendTo)
	cmd.Action(a.providerAction(func(ctx context.Context, p *storage.FileSystemProvider) error {
		return c.run(ctx, a, p)
	}))
}

func (c *commandWrite) run(ctx context.Context, a *App, p *storage.FileSystemProvider) error {
	dir, name := splitParent(c.path)
	if name == "" {
		return errors.Errorf("%v does not name a file", c.path)
	}

	folder, err := a.resolveFolder(ctx, p, dir)
	if err != nil {
		return err
	}

	f, err := lookupOrCreateFile(ctx, folder, name)
	if err != nil {
		return err
	}

	data := []byte(c.data)
	if c.data == "" {
		if data, err = io.ReadAll(os.Stdin); err != nil {
			return errors.Wrap(err, "reading stdin")
		}
	}

	return f.Write(ctx, data, storage.WriteOptions{Append: c.appendTo})
}

func lookupOrCreateFile(ctx context.Context, folder *storage.Folder, name string) (*storage.File, error) {
	e, err := folder.Entry(ctx, name)

	switch {
	case errors.Is(err, storage.ErrEntryNotFound):
		return folder.CreateFile(ctx, name, false)
	case err != nil:
		return nil, err
	}

	f, ok := e.(*storage.File)
	if !ok {
		return nil, errors.Errorf("%v is not a file", name)
	}

	return f, nil
}

// splitParent splits a spec into its parent part and final element.
func splitParent(spec string) (parent, name string) {
	i := strings.LastIndex(spec, "/")
	if i < 0 {
		return spec, ""
	}

	return spec[:i], spec[i+1:]
}
