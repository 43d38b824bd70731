package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/modelsite/cmd/modelsite/commands"
	ferrors "git.home.luguber.info/inful/modelsite/internal/foundation/errors"
	"git.home.luguber.info/inful/modelsite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("modelsite"),
		kong.Description("Static site generator for NetLogo model collections"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	global := &commands.Global{Logger: slog.Default()}
	err := parser.Run(global, cli)

	adapter := ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
	adapter.HandleError(err)
}
