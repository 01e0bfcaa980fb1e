package aitcli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Watch the generation lifecycle event feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		err := newClient().StreamEvents(ctx, func(evt EventEnvelope) bool {
			if jsonOutput() {
				printJSON(evt)
				return true
			}
			fmt.Printf("%s  gen=%d  %s\n", formatTime(evt.Timestamp), evt.Generation, evt.Type)
			return true
		})
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server health and runtime info",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()

		var health map[string]string
		if err := client.GetJSON("/healthz", &health); err != nil {
			return err
		}
		var info map[string]interface{}
		if err := client.GetJSON("/system/info", &info); err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(map[string]interface{}{"health": health, "info": info})
		}

		fmt.Printf("server:  %s\n", serverURL)
		fmt.Printf("status:  %s\n", health["status"])
		fmt.Printf("version: %v\n", info["version"])
		fmt.Printf("model:   %v\n", info["model"])
		fmt.Printf("canvas:  %vx%v\n", info["canvasWidth"], info["canvasHeight"])
		fmt.Printf("typeset: %v\n", info["typesetAvailable"])
		return nil
	},
}
