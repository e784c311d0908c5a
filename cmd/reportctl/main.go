// Command reportctl renders inspection and RBD reports without the web
// server and inspects the saved trips and the vessel catalog.
package main

import "github.com/csg33k/vessel-reports/internal/cli"

// Set via -ldflags by the mage Build target.
var version = "dev"

func main() {
	cli.Version = version
	cli.Execute(cli.NewRootCommand())
}
