package aitcli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var exportOutFile string

var exportCmd = &cobra.Command{
	Use:   "export <commands.json>",
	Short: "Render a command list file to PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commands, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		payload, err := json.Marshal(map[string]json.RawMessage{"commands": commands})
		if err != nil {
			return err
		}

		client := newClient()
		req, err := client.newRequest(http.MethodPost, "/api/export/pdf", bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/pdf")

		resp, err := (&http.Client{Timeout: client.Timeout}).Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			return responseError(req, resp)
		}

		out, err := os.Create(exportOutFile)
		if err != nil {
			return err
		}
		defer out.Close()
		n, err := io.Copy(out, resp.Body)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d bytes)\n", exportOutFile, n)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutFile, "file", "f", "canvas.pdf", "Output PDF path")
}
