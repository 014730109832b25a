package commands

import (
	"fmt"
	"os"

	"github.com/marmos91/pipearchive/pkg/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `init writes a default configuration file to the location pipearchivectl
reads from unless --config overrides it.

Examples:
  # Write the default config to $XDG_CONFIG_HOME/pipearchive/config.yaml
  pipearchivectl init

  # Write it somewhere else
  pipearchivectl init --config /etc/pipearchive/config.yaml`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
	}

	if err := config.SaveConfig(config.GetDefaultConfig(), path); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	fmt.Printf("configuration written: %s\n", path)
	return nil
}
