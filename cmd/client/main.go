package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

// errReported marks failures the command already showed to the user.
var errReported = errors.New("reported")

var rootFlags struct {
	config   string
	server   string
	ws       string
	platform string
	logLevel string
}

var rootCmd = &cobra.Command{
	Use:           "boardbot",
	Short:         "Send whiteboard photos to the BoardBot processing server",
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.config, "config", "", "Path to boardbot.yaml")
	f.StringVar(&rootFlags.server, "server", "", "Processing server base URL (e.g. http://127.0.0.1:5000)")
	f.StringVar(&rootFlags.ws, "ws", "", "Status WebSocket URL (e.g. ws://localhost:8777)")
	f.StringVar(&rootFlags.platform, "platform", "", "Endpoint table row: android, ios or web")
	f.StringVar(&rootFlags.logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
