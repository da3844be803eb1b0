package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"netvisor/internal/capture"
	"netvisor/internal/models"
	"netvisor/internal/zeek"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var allCommands []cli.Command

var configFlag = cli.StringFlag{
	Name:  "config, c",
	Usage: "specify a config file to be used",
	Value: "",
}

// Commands provides all of the defined commands to the front end
func Commands() []cli.Command {
	return allCommands
}

// bootstrapCommands simply adds a given command to the allCommands array
func bootstrapCommands(commands ...cli.Command) {
	allCommands = append(allCommands, commands...)
}

// errUnknownInput is returned for files that are neither Zeek logs nor captures
var errUnknownInput = errors.New("expected a Zeek .log file or a .pcap/.pcapng capture")

// parseInput runs the pipeline matching the file extension.
func parseInput(path string, loc *time.Location, logger log.FieldLogger) (*models.ParseResult, error) {
	switch filepath.Ext(path) {
	case ".log":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return zeek.ParseConnLog(f, logger)
	case ".pcap", ".pcapng":
		return capture.ParseFile(path, capture.Options{Location: loc, Logger: logger})
	default:
		return nil, fmt.Errorf("%s: %w", path, errUnknownInput)
	}
}

// inputArg returns the single positional FILE argument.
func inputArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("%s requires exactly one FILE argument", c.Command.Name)
	}
	return c.Args().First(), nil
}
