package commands

import (
	"io"

	"netvisor/internal/config"
	"netvisor/internal/logging"
	"netvisor/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:      "view",
		Usage:     "Browse a parse result in the terminal",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{configFlag},
		Action:    view,
	}

	bootstrapCommands(command)
}

func view(c *cli.Context) error {
	input, err := inputArg(c)
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	// the terminal belongs to the viewer; only the file hook keeps logging
	logger.SetOutput(io.Discard)

	result, err := parseInput(input, loc, logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewResultModel(result, input), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
