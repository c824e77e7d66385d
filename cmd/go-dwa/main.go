package main

import (
	"os"

	"github.com/dwatools/go-dwa/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
