package main

import (
	"os"

	"github.com/replikit/tap-covid19/internal/adapters/driving/cli"
)

func main() {
	os.Exit(cli.Execute())
}
