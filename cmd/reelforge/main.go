// Command reelforge renders a composition JSON file to a finished video or
// audio container using the local-filesystem reference MediaStore.
package main

import (
	"github.com/mantonx/reelforge/cmd/reelforge/cli"
)

func main() {
	cli.Execute()
}
