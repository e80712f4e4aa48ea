package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "chatd",
	Short:   "Chat API server with dense per-scope sequence numbering",
	Long:    "A chat system whose applications, chats and messages carry dense, duplicate-free sequence numbers, backed by an atomic counter store and a constraint-enforcing durable store.",
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (TOML)")
}

func Execute() error {
	return rootCmd.Execute()
}
