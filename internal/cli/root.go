package cli

import (
	"fmt"

	"github.com/kyson/cmdkit/internal/config"
	"github.com/kyson/cmdkit/internal/env"
	"github.com/kyson/cmdkit/internal/logger"
	"github.com/spf13/cobra"
)

var (
	GlobalDebug bool
	LogFile     string
)

// settings is filled by the root PersistentPreRunE before any subcommand runs.
var settings config.Settings

func NewRootCommand() *cobra.Command {
	var (
		homeDir string
		format  string
	)
	cmd := &cobra.Command{
		Use:           "cmdkit",
		Short:         "Command dispatch and undo/redo engine, played on a small board game",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Load()
			if err != nil {
				return err
			}
			if homeDir == "" {
				homeDir = s.Home
			}
			if err := env.Init(homeDir); err != nil {
				return fmt.Errorf("environment setup failed: %w", err)
			}

			if cmd.Flags().Changed("format") {
				s.Format = format
			}
			if LogFile == "" {
				LogFile = s.LogFile
			}
			logger.Setup(logger.Config{Debug: GlobalDebug || s.Debug, FilePath: LogFile})
			settings = s
			return nil
		},
	}

	// bind global flags
	cmd.PersistentFlags().BoolVarP(&GlobalDebug, "debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&homeDir, "home", "", "Working directory (default: ~/.cmdkit)")
	cmd.PersistentFlags().StringVar(&LogFile, "log", "", "Log file (default: stdout)")
	cmd.PersistentFlags().StringVarP(&format, "format", "f", "json", "History format: json or yaml")

	// register sub commands
	cmd.AddCommand(newVersionCommand(),
		newPlayCommand(),
		newServeCommand(),
		newPlaceCommand(),
		newMoveCommand(),
		newResignCommand(),
		newUndoCommand(),
		newRedoCommand(),
		newHistoryCommand(),
		newStatusCommand(),
		newMonitorCommand(),
	)

	return cmd
}

// execute command
func Execute() error {
	return NewRootCommand().Execute()
}
