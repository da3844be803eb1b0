package main

import (
	"fmt"
	"os"

	"netvisor/internal/commands"
	"netvisor/internal/config"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "netvisor"
	app.Usage = "Summarize Zeek connection logs and packet captures."
	app.Version = config.VERSION

	app.Commands = commands.Commands()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
