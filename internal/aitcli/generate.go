package aitcli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nithin01010/AI-Teacher/internal/command"
	"github.com/nithin01010/AI-Teacher/internal/stream"
)

var generateOnce bool

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Send a prompt and watch the drawing command stream",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.Join(args, " ")
		client := newClient()

		if generateOnce {
			return runGenerateOnce(client, prompt)
		}
		return runGenerateStream(cmd, client, prompt)
	},
}

func init() {
	generateCmd.Flags().BoolVar(&generateOnce, "once", false, "Wait for the full reply instead of streaming")
}

func runGenerateStream(cmd *cobra.Command, client *Client, prompt string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	body, err := client.PostStream(ctx, "/api/generate", map[string]string{"prompt": prompt})
	if err != nil {
		return err
	}
	defer body.Close()

	count := 0
	err = stream.Decode(ctx, body, func(c command.Command) bool {
		count++
		printCommand(c)
		return true
	})
	if err != nil {
		return err
	}
	if !jsonOutput() {
		fmt.Printf("%d commands\n", count)
	}
	return nil
}

func runGenerateOnce(client *Client, prompt string) error {
	var resp struct {
		Commands []json.RawMessage `json:"commands"`
	}
	if err := client.PostJSON("/api/generate?stream=false", map[string]string{"prompt": prompt}, &resp); err != nil {
		return err
	}
	if jsonOutput() {
		return printJSON(resp)
	}
	for _, raw := range resp.Commands {
		c, err := command.Decode(raw)
		if err != nil {
			continue
		}
		printCommand(c)
	}
	fmt.Printf("%d commands\n", len(resp.Commands))
	return nil
}

func printCommand(c command.Command) {
	if jsonOutput() {
		if data, err := json.Marshal(c); err == nil {
			fmt.Println(string(data))
		}
		return
	}
	switch v := c.(type) {
	case command.Text:
		fmt.Printf("text     (%.0f,%.0f)  %q\n", v.X, v.Y, v.Text)
	case command.Equation:
		fmt.Printf("equation (%.0f,%.0f)  %s\n", v.X, v.Y, v.Latex)
	case command.Line:
		fmt.Printf("line     %d points\n", len(v.Points)/2)
	case command.Rect:
		fmt.Printf("rect     (%.0f,%.0f) %gx%g\n", v.X, v.Y, v.Width, v.Height)
	case command.Group:
		fmt.Printf("group    (%.0f,%.0f)  %d children\n", v.X, v.Y, len(v.Children))
	default:
		fmt.Printf("%s\n", c.Kind())
	}
}
