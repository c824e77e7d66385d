// Package base carries the pieces shared by every CLI command: the UI
// and logger handles, flag set help rendering, and the connection flags
// that dial an authenticated client.
package base

import (
	"bytes"
	"flag"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command is embedded by every CLI command.
type Command struct {
	UI  cli.Ui
	Log hclog.Logger
}

// NewCommand creates the shared command base.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{UI: ui, Log: log}
}

// FlagSet wraps flag.FlagSet with help text rendering for command Help
// output.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet creates a FlagSet.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help returns the flag defaults as an indented block for appending to a
// command's Help output.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	f.SetOutput(&buf)
	f.PrintDefaults()
	if buf.Len() == 0 {
		return ""
	}
	return "\n\nOptions:\n\n" + buf.String()
}
