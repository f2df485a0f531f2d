package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cryptodigest/eprint-watch/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect the local paper archive",
	Long: `Archive queries the SQLite database that run populates with every
delivered paper.`,
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().String("db", "", "SQLite archive path (default eprint-watch.db)")
	archiveCmd.Flags().Int("recent", 0, "list the N most recently posted papers")

	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dbPath := setting(cmd, "db", "archive.db_path", "eprint-watch.db")

	store, err := archive.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer store.Close()

	count, err := store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Archived papers: %d\n", count)

	recent, _ := cmd.Flags().GetInt("recent")
	if recent <= 0 {
		return nil
	}

	entries, err := store.Recent(ctx, recent)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("[%s] %s (posted %s)\n", e.ID, e.Title, e.PostedAt)
	}
	return nil
}
