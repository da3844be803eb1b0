package commands

import (
	"fmt"
	"io"
	"os"

	"netvisor/internal/config"
	"netvisor/internal/logging"
	"netvisor/internal/reporting"

	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:      "parse",
		Usage:     "Summarize a Zeek conn.log or a packet capture",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			configFlag,
			cli.StringFlag{
				Name:  "format, f",
				Usage: "output `FORMAT`: json, table or html",
				Value: reporting.FormatJSON,
			},
			cli.StringFlag{
				Name:  "output, o",
				Usage: "write to `FILE` instead of standard out",
				Value: "",
			},
			cli.StringFlag{
				Name:  "tz",
				Usage: "timezone `NAME` for capture timestamps, overrides the config",
				Value: "",
			},
		},
		Action: parse,
	}

	bootstrapCommands(command)
}

func parse(c *cli.Context) error {
	input, err := inputArg(c)
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if tz := c.String("tz"); tz != "" {
		cfg.Capture.Timezone = tz
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	result, err := parseInput(input, loc, logger)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if err := reporting.Render(out, result, c.String("format"), input); err != nil {
		return fmt.Errorf("failed to render %s: %w", input, err)
	}
	return nil
}
