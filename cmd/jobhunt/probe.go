package main

import (
	"time"

	"github.com/jonathan/jobhunt-tracker/internal/fetch"
	"github.com/jonathan/jobhunt-tracker/internal/observability"
	"github.com/spf13/cobra"
)

var probeTimeout time.Duration

var probeCmd = &cobra.Command{
	Use:   "probe <url>...",
	Short: "Check whether URLs are reachable",
	Long:  `Send a HEAD request to each URL (falling back to GET) without following redirects and report which ones answer with a 2xx or 3xx status.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProbe,
}

func init() {
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", fetch.DefaultProbeTimeout, "Per-URL timeout")
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	for _, u := range args {
		if err := fetch.ValidateURL(u); err != nil {
			return err
		}
	}
	results := fetch.NewProber(probeTimeout).ProbeAll(cmd.Context(), args)
	observability.NewPrinter(cmd.OutOrStdout()).PrintProbeResults(results)
	return nil
}
