package main

import (
	"time"

	"github.com/jonathan/jobhunt-tracker/internal/observability"
	"github.com/jonathan/jobhunt-tracker/internal/schedule"
	"github.com/jonathan/jobhunt-tracker/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	scheduleUserID string
	scheduleStats  bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print a user's upcoming selection events",
	Long:  `Derive calendar events from every company's selection steps and print the upcoming ones grouped by today, tomorrow, this week and later.`,
	Args:  cobra.NoArgs,
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleUserID, "user-id", "", "User ID (required)")
	scheduleCmd.Flags().BoolVar(&scheduleStats, "stats", false, "Also print per-status company counts")
	_ = scheduleCmd.MarkFlagRequired("user-id")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	userID, err := parseUserID(scheduleUserID)
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	companies, err := store.ListCompanies(cmd.Context(), userID)
	if err != nil {
		return err
	}

	now := time.Now()
	p := observability.NewPrinter(cmd.OutOrStdout())
	p.PrintSchedule(schedule.GroupUpcoming(schedule.DeriveEvents(companies), now), now)
	if scheduleStats {
		p.PrintStats(tracker.Summarize(companies))
	}
	return nil
}
