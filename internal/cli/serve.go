package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kyson/cmdkit/internal/env"
	"github.com/kyson/cmdkit/internal/logger"
	"github.com/kyson/cmdkit/internal/session"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCommand() *cobra.Command {
	var rows, cols, line int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host a game session on the local socket",
		Long:  `Starts a session server that keeps one board and its undo/redo history, and answers place, move, undo and other commands from this CLI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := session.New(session.Options{
				Rows:      rows,
				Cols:      cols,
				Line:      line,
				UndoLimit: settings.UndoLimit,
				Format:    settings.Format,
				Logger:    logger.Get(),
			})
			if err != nil {
				return err
			}
			defer sess.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return sess.Serve(gctx, env.Get())
			})
			g.Go(func() error {
				sig := make(chan os.Signal, 1)
				signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
				defer signal.Stop(sig)
				select {
				case s := <-sig:
					logger.Info("Received signal, stopping session", "signal", s.String())
					cancel()
				case <-gctx.Done():
				}
				return nil
			})
			return g.Wait()
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 3, "Board rows")
	cmd.Flags().IntVar(&cols, "cols", 3, "Board columns")
	cmd.Flags().IntVar(&line, "line", 0, "Marks in a row needed to win (default: smaller board side)")

	return cmd
}
