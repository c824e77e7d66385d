// Package objects implements the command that lists the entries of a
// document.
package objects

import (
	"context"
	"flag"
	"fmt"

	"github.com/dwatools/go-dwa/internal/cmd/base"
	"github.com/dwatools/go-dwa/pkg/dwa"
	"github.com/dwatools/go-dwa/pkg/guid"
)

type Command struct {
	*base.Command

	remote         base.RemoteFlags
	flagStartIndex int
	flagFetchCount int
	flagView       string
	flagURNs       bool
}

func (c *Command) Synopsis() string {
	return "List the objects of a document"
}

func (c *Command) Help() string {
	return `Usage: go-dwa objects [options] <document-guid>

  This command fetches one page of the given document's objects and
  prints one line per object: identifier, paragraph number, and heading.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("objects", flag.ExitOnError))
	c.remote.Register(f)
	f.IntVar(&c.flagStartIndex, "start-index", 0,
		"Index of the first object to fetch.")
	f.IntVar(&c.flagFetchCount, "fetch-count", 0,
		fmt.Sprintf("Number of objects to fetch. Default: %d.", dwa.DefaultFetchCount))
	f.StringVar(&c.flagView, "view", "",
		"GUID of a saved view to fetch through.")
	f.BoolVar(&c.flagURNs, "urns", false,
		"Print each object's URN instead of its summary line.")
	return f
}

func (c *Command) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if flags.NArg() != 1 {
		c.UI.Error("exactly one document GUID argument is required")
		return 1
	}

	g, err := guid.Parse(flags.Arg(0))
	if err != nil {
		c.UI.Error(fmt.Sprintf("invalid document GUID: %v", err))
		return 1
	}

	ctx := context.Background()
	client, err := c.remote.Dial(ctx, c.Log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error connecting: %v", err))
		return 1
	}

	objects, err := client.Document(g).Objects(ctx, dwa.PageOptions{
		StartIndex: c.flagStartIndex,
		FetchCount: c.flagFetchCount,
		ViewGUID:   c.flagView,
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error fetching objects: %v", err))
		return 1
	}

	for _, obj := range objects {
		if c.flagURNs {
			c.UI.Output(obj.URN.String())
			continue
		}
		line := obj.ObjectID
		if obj.Identifier != "" {
			line += "  " + obj.Identifier
		}
		if obj.HeadingNum != "" {
			line += "  " + obj.HeadingNum + " " + obj.HeadingText
		} else if obj.ParagraphNumber != "" {
			line += "  (" + obj.ParagraphNumber + ")"
		}
		c.UI.Output(line)
	}
	return 0
}
