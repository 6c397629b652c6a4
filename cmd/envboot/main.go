package main

import (
	"os"

	"github.com/arthur-debert/envboot/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
