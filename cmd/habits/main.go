package main

import (
	"os"

	"github.com/habittracker/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
