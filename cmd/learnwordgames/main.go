package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/wordgames/cmd/learnwordgames/commands"
	"git.home.luguber.info/inful/wordgames/internal/config"
	"git.home.luguber.info/inful/wordgames/internal/foundation/errors"
	"git.home.luguber.info/inful/wordgames/internal/version"
)

func main() {
	var cli commands.CLI
	global := commands.NewGlobal(os.Stdout)

	ctx := kong.Parse(&cli,
		kong.Name(config.AppName),
		kong.Description("Serve, render and validate the Learn Word Games landing page."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)
	if err := ctx.Run(&cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
