package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┬┐┬─┐┌─┐┬ ┬┌┐ ┬─┐┬┌┬┐┌─┐┌─┐
   ││├┬┘├─┤│││├┴┐├┬┘│ ││ ┬├┤
  ─┴┘┴└─┴ ┴└┴┘└─┘┴└─┴─┴┘└─┘└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "drawbridge",
		Short: "Bridge a scene graph to remote renderers",
		Long: `Drawbridge drives remote display surfaces for a scene-graph host.

It serializes scene scripts and assets into a framed binary protocol,
fans them out to connected renderers, and translates renderer input
back into host events. Features include:

  • Multi-renderer TCP server with per-peer framing
  • Outbound TCP, Unix-socket and WebSocket transports
  • Automatic reconnect and full resync on renderer Ready
  • Letterbox viewport fitting from the reported device size
  • Prometheus metrics and a peer-listing admin endpoint`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands
	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the drawbridge ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}
