// Command generate drives one end-to-end OSM-to-Minecraft generation run
// from the command line.
package main

import (
	"os"

	"github.com/arnisgo/arnis/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
