package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var reconcileAddr string
var reconcileJSON bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Trigger counter reconciliation on a running server",
	RunE:  runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileAddr, "addr", "http://127.0.0.1:8080", "server address")
	reconcileCmd.Flags().BoolVar(&reconcileJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(reconcileCmd)
}

type reconcileResponse struct {
	Results []struct {
		Scope     string `json:"scope"`
		Before    int64  `json:"before"`
		After     int64  `json:"after"`
		Corrected bool   `json:"corrected"`
		Error     string `json:"error,omitempty"`
	} `json:"results"`
}

func runReconcile(cmd *cobra.Command, args []string) error {
	resp, err := http.Post(reconcileAddr+"/internal/reconcile", "application/json", nil)
	if err != nil {
		return fmt.Errorf("triggering reconciliation: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var out reconcileResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decoding results: %w", err)
	}

	if reconcileJSON {
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	corrected, failed := 0, 0
	for _, r := range out.Results {
		if r.Error != "" {
			failed++
			fmt.Printf("  %s: error: %s\n", r.Scope, r.Error)
			continue
		}
		if r.Corrected {
			corrected++
			fmt.Printf("  %s: %d -> %d\n", r.Scope, r.Before, r.After)
		}
	}
	fmt.Printf("Scopes checked: %d, corrected: %d, failed: %d\n", len(out.Results), corrected, failed)
	return nil
}
