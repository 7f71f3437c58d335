// Command click serves the click showcase application and inspects project
// configuration.
package main

import (
	"os"

	"github.com/go-click/click/cmd/click/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
