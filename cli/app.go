// Package cli implements the hostfs command-line tool, a thin maintenance
// front-end over a local storage provider.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hostfs/hostfs/logging"
	"github.com/hostfs/hostfs/storage"
	"github.com/hostfs/hostfs/storage/localfs"
)

// App holds global flags and all subcommands.
type App struct {
	appRoot   string
	userRoot  string
	pluginDir string
	logLevel  string
	logFile   string

	stdout io.Writer

	domains commandDomains
	ls      commandList
	cat     commandCat
	write   commandWrite
	rm      commandRemove
	stat    commandStat
	mkdir   commandMkdir
}

// NewApp returns an App writing to stdout.
func NewApp() *App {
	return &App{stdout: os.Stdout}
}

// Attach registers all flags and subcommands on a kingpin application.
func (a *App) Attach(app *kingpin.Application) {
	app.Flag("app-root", "Application storage root directory").StringVar(&a.appRoot)
	app.Flag("user-root", "Override the user directories root").Hidden().StringVar(&a.userRoot)
	app.Flag("plugin-dir", "Read-only plugin directory").StringVar(&a.pluginDir)
	app.Flag("log-level", "Log level").Default("warn").EnumVar(&a.logLevel, "debug", "info", "warn", "error", "none")
	app.Flag("log-file", "Also append log output to the given file").StringVar(&a.logFile)

	a.domains.setup(a, app)
	a.ls.setup(a, app)
	a.cat.setup(a, app)
	a.write.setup(a, app)
	a.rm.setup(a, app)
	a.stat.setup(a, app)
	a.mkdir.setup(a, app)
}

// providerAction adapts a provider-based command handler to a kingpin
// action.
func (a *App) providerAction(act func(ctx context.Context, p *storage.FileSystemProvider) error) func(*kingpin.ParseContext) error {
	return func(_ *kingpin.ParseContext) error {
		ctx, err := a.rootContext()
		if err != nil {
			return err
		}

		p, err := localfs.NewProvider(localfs.Options{
			AppRoot:   a.appRoot,
			UserRoot:  a.userRoot,
			PluginDir: a.pluginDir,
		})
		if err != nil {
			return errors.Wrap(err, "opening local storage")
		}

		return act(ctx, p)
	}
}

func (a *App) rootContext() (context.Context, error) {
	l, err := a.loggerFactory()
	if err != nil {
		return nil, err
	}

	return logging.WithLogger(context.Background(), l), nil
}

func (a *App) loggerFactory() (logging.LoggerForModuleFunc, error) {
	if a.logLevel == "none" {
		return func(module string) logging.Logger {
			return logging.NullLogger()
		}, nil
	}

	lvl, err := zap.ParseAtomicLevel(a.logLevel)
	if err != nil {
		return nil, errors.Wrap(err, "parsing log level")
	}

	console, err := logging.ZapDevelopment(lvl)
	if err != nil {
		return nil, errors.Wrap(err, "initializing logging")
	}

	if a.logFile == "" {
		return console, nil
	}

	// the file handle stays open for the life of the process
	f, err := os.OpenFile(a.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, errors.Wrap(err, "opening log file")
	}

	file := logging.Printf(func(msg string, args ...interface{}) {
		fmt.Fprintf(f, msg+"\n", args...)
	})

	return func(module string) logging.Logger {
		return logging.Broadcast{console(module), file(module)}
	}, nil
}

func (a *App) printStdout(msg string, args ...interface{}) {
	fmt.Fprintf(a.stdout, msg, args...)
}

// domainByName maps a domain name, as printed by Domain.String, back to the
// domain.
func domainByName(name string) (storage.Domain, error) {
	for _, d := range storage.AllDomains() {
		if d.String() == name {
			return d, nil
		}
	}

	return storage.DomainInvalid, errors.Errorf("unknown domain %q", name)
}

// resolveFolder resolves a "<domain>[/rel/path]" spec to a folder.
func (a *App) resolveFolder(ctx context.Context, p *storage.FileSystemProvider, spec string) (*storage.Folder, error) {
	root, rel, err := a.splitSpec(ctx, p, spec)
	if err != nil {
		return nil, err
	}

	if rel == "" {
		return root, nil
	}

	e, err := root.Entry(ctx, rel)
	if err != nil {
		return nil, err
	}

	d, ok := e.(*storage.Folder)
	if !ok {
		return nil, errors.Errorf("%v is not a folder", spec)
	}

	return d, nil
}

// resolveEntry resolves a "<domain>/rel/path" spec to an entry.
func (a *App) resolveEntry(ctx context.Context, p *storage.FileSystemProvider, spec string) (storage.Entry, error) {
	root, rel, err := a.splitSpec(ctx, p, spec)
	if err != nil {
		return nil, err
	}

	if rel == "" {
		return root, nil
	}

	return root.Entry(ctx, rel)
}

func (a *App) splitSpec(ctx context.Context, p *storage.FileSystemProvider, spec string) (*storage.Folder, string, error) {
	domainName, rel, _ := strings.Cut(spec, "/")

	d, err := domainByName(domainName)
	if err != nil {
		return nil, "", err
	}

	root, err := p.GetFolderForDomain(ctx, d)
	if err != nil {
		return nil, "", err
	}

	return root, rel, nil
}
