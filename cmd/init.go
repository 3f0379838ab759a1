package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/zoomport/internal/config"
	"github.com/zjrosen/zoomport/internal/paths"
	"github.com/zjrosen/zoomport/internal/ui/styles"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	console := styles.NewConsole(os.Stdout, cfg.Color)

	path := cfgFile
	if path == "" {
		var err error
		path, err = paths.ConfigFile()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		console.Statusf("Config already exists at %s (use --force to overwrite)", path)
		return nil
	}

	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	console.Successf("Wrote %s", path)
	return nil
}
