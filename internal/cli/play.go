package cli

import (
	"fmt"

	"github.com/kyson/cmdkit/internal/codec"
	"github.com/kyson/cmdkit/internal/logger"
	"github.com/kyson/cmdkit/internal/script"
	"github.com/spf13/cobra"
)

func newPlayCommand() *cobra.Command {
	var (
		strict      bool
		showHistory bool
	)

	cmd := &cobra.Command{
		Use:   "play <script.yaml>",
		Short: "Replay a YAML play script locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.Load(args[0])
			if err != nil {
				return err
			}
			r, err := script.NewRunner(s.Board, script.Options{
				Logger:    logger.NewLeveled(nil),
				UndoLimit: settings.UndoLimit,
				Strict:    strict,
			})
			if err != nil {
				return err
			}
			defer r.Close()

			rep, err := r.Run(cmd.Context(), s.Steps)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			b := r.Board()
			fmt.Fprint(out, b.String())
			if w := b.Winner(); w != "" {
				fmt.Fprintf(out, "winner: %s\n", w)
			} else {
				fmt.Fprintf(out, "turn: %s\n", b.Turn())
			}
			m := r.Manager()
			fmt.Fprintf(out, "steps: %d (skipped %d), undo: %d, redo: %d\n", rep.Steps, rep.Skipped, m.UndoCount(), m.RedoCount())

			if !showHistory {
				return nil
			}
			ser, err := codec.ForFormat(settings.Format)
			if err != nil {
				return err
			}
			h, err := m.SerializeHistory(ser)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, h)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on undo/redo with empty history")
	cmd.Flags().BoolVar(&showHistory, "history", false, "Print the executed history after the run")

	return cmd
}
