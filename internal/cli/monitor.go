package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kyson/cmdkit/internal/logger"
	"github.com/kyson/cmdkit/internal/tui/monitor"
	"github.com/spf13/cobra"
)

func newMonitorCommand() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:     "monitor",
		Aliases: []string{"watch"},
		Short:   "Watch and play the running session in the terminal",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Debug("run monitor command", "interval", interval)
			model := monitor.NewModel(commandSenderFactory()).WithInterval(interval)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run monitor command failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", monitor.DefaultPollInterval, "Status refresh interval")
	return cmd
}
