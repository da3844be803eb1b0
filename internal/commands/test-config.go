package commands

import (
	"fmt"

	"netvisor/internal/config"

	"github.com/urfave/cli"
	yaml "gopkg.in/yaml.v2"
)

func init() {
	command := cli.Command{
		Name:   "test-config",
		Usage:  "Check the configuration file for validity",
		Flags:  []cli.Flag{configFlag},
		Action: testConfiguration,
	}

	bootstrapCommands(command)
}

// testConfiguration prints out the result of parsing the config file
func testConfiguration(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("invalid capture.timezone: %w", err)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(c.App.Writer, string(out))
	return nil
}
