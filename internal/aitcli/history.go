package aitcli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nithin01010/AI-Teacher/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent generation requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			History []store.Generation `json:"history"`
		}
		if err := newClient().GetJSON("/api/history", &resp); err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(resp.History)
		}

		tw := newTable()
		fmt.Fprintln(tw, "ID\tSTATUS\tCOMMANDS\tDURATION\tCREATED\tPROMPT")
		for _, g := range resp.History {
			prompt := g.Prompt
			if len(prompt) > 48 {
				prompt = prompt[:45] + "..."
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%dms\t%s\t%s\n",
				g.ID, g.Status, g.Commands, g.DurationMS, formatTime(g.CreatedAt), prompt)
		}
		flushTable(tw)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the request history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeleteJSON("/api/history", nil); err != nil {
			return err
		}
		fmt.Println("history cleared")
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
}
