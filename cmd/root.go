// Package cmd provides the command-line interface of vcdplayer.
// vcdplayer plays Video CD and Super Video CD disc images, following the
// playback control lists of the disc when present.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hansbonini/vcdplayer/pkg/common"
	"github.com/hansbonini/vcdplayer/pkg/config"
)

// cfg holds the configuration loaded before any subcommand runs.
var cfg *config.Config

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "vcdplayer",
	Short: "Play Video CD disc images",
	Long: `vcdplayer - A playback engine for Video CD and Super Video CD images.

Currently supports:
  - Catalog inspection (tracks, entries, segments and PBC lists)
  - Streaming the MPEG payload of a disc to a file or pipe
  - An HTTP remote control with a live stream endpoint

Examples:
  vcdplayer info disc.yaml disc.bin
  vcdplayer play disc.bin -o movie.mpg
  vcdplayer play vcdx://disc.bin@E2 | mpv -
  vcdplayer serve disc.bin --bind :8090

Use 'vcdplayer [command] --help' for more information about a command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return common.FormatError(common.ErrFailedToLoadConfig, err)
		}

		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
		}
		if err := cfg.Validate(); err != nil {
			return common.FormatError(common.ErrFailedToLoadConfig, err)
		}
		if err := common.ConfigureLogging(cfg.Log.Level, cfg.Log.File); err != nil {
			return err
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			common.SetVerboseMode(true)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main() and serves as the entry point for command execution.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the string printed by --version.
func SetVersion(version, buildTime, gitCommit string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", version, buildTime, gitCommit)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Configuration file (default ~/.vcdplayerrc or $XDG_CONFIG_HOME/vcdplayer/config.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
}
