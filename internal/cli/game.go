package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kyson/cmdkit/internal/ipc"
	"github.com/spf13/cobra"
)

func newPlaceCommand() *cobra.Command {
	var (
		mark   string
		queued bool
	)
	cmd := &cobra.Command{
		Use:   "place <row> <col>",
		Short: "Place a mark on an empty cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parseInts(args)
			if err != nil {
				return err
			}
			payload := map[string]any{"row": pos[0], "col": pos[1]}
			if mark != "" {
				payload["mark"] = mark
			}
			return sendAndPrint(cmd, boardMessage(ipc.MsgPlace, payload, queued))
		},
	}
	cmd.Flags().StringVarP(&mark, "mark", "m", "", "Mark to place (default: whoever's turn it is)")
	addQueueFlag(cmd, &queued)
	return cmd
}

func newMoveCommand() *cobra.Command {
	var (
		mark   string
		queued bool
	)
	cmd := &cobra.Command{
		Use:   "move <from-row> <from-col> <to-row> <to-col>",
		Short: "Slide a mark to an empty cell",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parseInts(args)
			if err != nil {
				return err
			}
			payload := map[string]any{"from": pos[0:2], "to": pos[2:4]}
			if mark != "" {
				payload["mark"] = mark
			}
			return sendAndPrint(cmd, boardMessage(ipc.MsgMove, payload, queued))
		},
	}
	cmd.Flags().StringVarP(&mark, "mark", "m", "", "Mark to move (default: whoever's turn it is)")
	addQueueFlag(cmd, &queued)
	return cmd
}

func newResignCommand() *cobra.Command {
	var (
		player string
		queued bool
	)
	cmd := &cobra.Command{
		Use:   "resign",
		Short: "Resign the game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload map[string]any
			if player != "" {
				payload = map[string]any{"player": player}
			}
			return sendAndPrint(cmd, boardMessage(ipc.MsgResign, payload, queued))
		},
	}
	cmd.Flags().StringVarP(&player, "player", "p", "", "Resigning player (default: whoever's turn it is)")
	addQueueFlag(cmd, &queued)
	return cmd
}

func newUndoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the last command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendAndPrint(cmd, ipc.CommandMessage{Name: ipc.MsgUndo})
		},
	}
}

func newRedoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Redo the last undone command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendAndPrint(cmd, ipc.CommandMessage{Name: ipc.MsgRedo})
		},
	}
}

func newHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the executed command history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := dispatchToSession(cmd.Context(), ipc.MsgHistory, map[string]any{"format": settings.Format})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Data["history"])
			return nil
		},
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := dispatchToSession(cmd.Context(), ipc.MsgStatus, nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session:  %v\n", resp.Data["session"])
			fmt.Fprintf(out, "Uptime:   %v\n", resp.Data["uptime"])
			fmt.Fprintf(out, "Board:    %vx%v\n", resp.Data["rows"], resp.Data["cols"])
			fmt.Fprintf(out, "Handlers: %v\n", resp.Data["handlers"])
			fmt.Fprintf(out, "Pending:  %v\n", resp.Data["pending"])
			if last, ok := resp.Data["last"]; ok {
				fmt.Fprintf(out, "Last:     %v\n", last)
			}
			printState(out, resp.Data)
			return nil
		},
	}
}

func addQueueFlag(cmd *cobra.Command, queued *bool) {
	cmd.Flags().BoolVarP(queued, "queue", "q", false, "Queue the command on the session worker and return immediately")
}

func boardMessage(name string, payload map[string]any, queued bool) ipc.CommandMessage {
	msg := ipc.CommandMessage{Name: name, Payload: payload}
	if queued {
		msg.Meta = map[string]any{ipc.MetaQueue: true}
	}
	return msg
}

func sendAndPrint(cmd *cobra.Command, msg ipc.CommandMessage) error {
	resp, err := dispatchMessage(cmd.Context(), msg)
	if err != nil {
		return err
	}
	printState(cmd.OutOrStdout(), resp.Data)
	return nil
}

// printState renders the board and counters returned by the session.
func printState(w io.Writer, data map[string]any) {
	switch rows := data["board"].(type) {
	case []any:
		for _, r := range rows {
			fmt.Fprintln(w, r)
		}
	case []string:
		for _, r := range rows {
			fmt.Fprintln(w, r)
		}
	}
	if winner, _ := data["winner"].(string); winner != "" {
		fmt.Fprintf(w, "winner: %s\n", winner)
	} else if turn, _ := data["turn"].(string); turn != "" {
		fmt.Fprintf(w, "turn: %s\n", turn)
	}
	if _, ok := data["undo"]; ok {
		fmt.Fprintf(w, "undo: %v, redo: %v\n", data["undo"], data["redo"])
	}
	if name, ok := data["queued"]; ok {
		fmt.Fprintf(w, "queued: %v (pending %v)\n", name, data["pending"])
	}
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %q is not a number", i+1, a)
		}
		out[i] = n
	}
	return out, nil
}
