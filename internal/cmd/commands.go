package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/dwatools/go-dwa/internal/cmd/base"
	"github.com/dwatools/go-dwa/internal/cmd/commands/objects"
	"github.com/dwatools/go-dwa/internal/cmd/commands/tree"
	"github.com/dwatools/go-dwa/internal/cmd/commands/versioncmd"
)

// Commands is the registry of CLI subcommands, populated by initCommands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	Commands = map[string]cli.CommandFactory{
		"tree": func() (cli.Command, error) {
			return &tree.Command{
				Command: base.NewCommand(log.Named("tree"), ui),
			}, nil
		},
		"objects": func() (cli.Command, error) {
			return &objects.Command{
				Command: base.NewCommand(log.Named("objects"), ui),
			}, nil
		},
		"version": func() (cli.Command, error) {
			return &versioncmd.Command{
				Command: base.NewCommand(log, ui),
			}, nil
		},
	}
}
