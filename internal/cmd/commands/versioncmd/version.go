// Package versioncmd implements the version command.
package versioncmd

import (
	"github.com/dwatools/go-dwa/internal/cmd/base"
	"github.com/dwatools/go-dwa/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return `Usage: go-dwa version

  This command prints the version of the go-dwa binary.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output("go-dwa " + version.String())
	return 0
}
