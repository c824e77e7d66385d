// Package tree implements the command that prints the resource tree
// beneath a folder or project.
package tree

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/dwatools/go-dwa/internal/cmd/base"
	"github.com/dwatools/go-dwa/pkg/dwa"
)

type Command struct {
	*base.Command

	remote    base.RemoteFlags
	flagDepth int
}

func (c *Command) Synopsis() string {
	return "Print the resource tree beneath a folder"
}

func (c *Command) Help() string {
	return `Usage: go-dwa tree [options] <root-guid>

  This command walks the resource tree beneath the given folder or
  project GUID and prints one line per node, indented by depth.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("tree", flag.ExitOnError))
	c.remote.Register(f)
	f.IntVar(&c.flagDepth, "depth", 0,
		"Maximum depth to descend. 0 means unlimited.")
	return f
}

func (c *Command) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if flags.NArg() != 1 {
		c.UI.Error("exactly one root GUID argument is required")
		return 1
	}

	ctx := context.Background()
	client, err := c.remote.Dial(ctx, c.Log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error connecting: %v", err))
		return 1
	}

	root, err := client.RootFolder(flags.Arg(0))
	if err != nil {
		c.UI.Error(fmt.Sprintf("invalid root GUID: %v", err))
		return 1
	}

	if err := c.printTree(ctx, root, 0); err != nil {
		c.UI.Error(fmt.Sprintf("error walking tree: %v", err))
		return 1
	}
	return 0
}

func (c *Command) printTree(ctx context.Context, node *dwa.Resource, depth int) error {
	c.UI.Output(fmt.Sprintf("%s%s  [%s]  %s",
		strings.Repeat("  ", depth), node.Name(), node.Kind(), node.GUID()))

	if c.flagDepth > 0 && depth >= c.flagDepth {
		return nil
	}
	children, err := node.Children(ctx)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := c.printTree(ctx, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
