package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jonathan/jobhunt-tracker/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportUserID string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a user's companies and schedule to an Excel workbook",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportUserID, "user-id", "", "User ID (required)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (defaults to jobhunt-YYYYMMDD.xlsx)")
	_ = exportCmd.MarkFlagRequired("user-id")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	userID, err := parseUserID(exportUserID)
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
	path := exportOut
	if path == "" {
		path = fmt.Sprintf("jobhunt-%s.xlsx", now.Format("20060102"))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.Write(f, companies, now); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d companies to %s\n", len(companies), path)
	return nil
}
