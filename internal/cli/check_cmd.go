package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/Muostafa/Chat-app-system-sub001/internal/seq"
)

var checkAddr string
var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Query the consistency state of a running server",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkAddr, "addr", "http://127.0.0.1:8080", "server address")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	resp, err := http.Get(checkAddr + "/internal/consistency")
	if err != nil {
		return fmt.Errorf("querying server: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var report seq.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return fmt.Errorf("decoding report: %w", err)
	}

	if checkJSON {
		return json.NewEncoder(os.Stdout).Encode(report)
	}

	fmt.Printf("Status: %s\n", report.Status)
	fmt.Printf("Scopes sampled: %d\n", len(report.Scopes))
	for _, s := range report.Scopes {
		if s.Err != "" {
			fmt.Printf("  %s: error: %s\n", s.Scope, s.Err)
			continue
		}
		if s.Drifted {
			fmt.Printf("  %s: DRIFTED counter=%d durable_max=%d\n", s.Scope, s.CounterVal, s.DurableMax)
		}
	}
	if report.Status == seq.StatusWarning {
		fmt.Println("Drift detected; run `chatd reconcile` to correct.")
	}
	return nil
}
