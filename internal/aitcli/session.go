package aitcli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nithin01010/AI-Teacher/internal/scene"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the current canvas snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		var snap scene.Snapshot
		if err := newClient().GetJSON("/api/session", &snap); err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(snap)
		}

		fmt.Printf("generation %d", snap.Generation)
		if snap.Prompt != "" {
			fmt.Printf("  prompt: %q", snap.Prompt)
		}
		fmt.Println()

		tw := newTable()
		fmt.Fprintln(tw, "OP\tPOSITION\tCONTENT\tSTATE")
		for _, d := range snap.Drawables {
			content := d.Text
			if d.Latex != "" {
				content = d.Latex
			}
			if content == "" && len(d.Points) > 0 {
				content = fmt.Sprintf("%d points", len(d.Points)/2)
			}
			fmt.Fprintf(tw, "%s\t(%.0f,%.0f)\t%s\t%s\n", d.Op, d.X, d.Y, content, d.State)
		}
		flushTable(tw)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the canvas",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp map[string]interface{}
		if err := newClient().PostJSON("/api/clear", nil, &resp); err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(resp)
		}
		fmt.Println("cleared")
		return nil
	},
}

var narrationCmd = &cobra.Command{
	Use:   "narration",
	Short: "Print the spoken text for the current canvas",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Text string `json:"text"`
		}
		if err := newClient().GetJSON("/api/narration", &resp); err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(resp)
		}
		fmt.Println(resp.Text)
		return nil
	},
}
