/*
Command-line tool for inspecting and maintaining plugin storage.

Usage:

	$ hostfs [<flags>] <subcommand> [<args> ...]

Use 'hostfs help' to see more details.
*/
package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/hostfs/hostfs/cli"
)

func main() {
	app := kingpin.New("hostfs", "Plugin storage maintenance tool.")

	cli.NewApp().Attach(app)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}
