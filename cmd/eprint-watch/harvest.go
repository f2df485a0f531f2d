package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/cryptodigest/eprint-watch/internal/eprint"
	"github.com/cryptodigest/eprint-watch/internal/syncer"
	"github.com/cryptodigest/eprint-watch/pkg/types"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Fetch recent papers and print them without posting",
	Long: `Harvest runs the OAI-PMH fetch and the date-window filter, then prints
the papers that would be posted. Nothing is delivered and the posted-ID
store is not modified, so harvest is safe to run at any time.`,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().Int("days", 0, "lookback window in days (default 4)")
	harvestCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	harvestCmd.Flags().Duration("delay", 0, "delay between OAI-PMH pages (default 500ms)")
	harvestCmd.Flags().String("posted-file", "", "posted-ID store path (default posted_papers.json)")
	harvestCmd.Flags().Bool("all", false, "include papers already posted")
	harvestCmd.Flags().String("format", "text", "output format: text or yaml")
	harvestCmd.Flags().Bool("keywords", true, "fetch keyword badges from paper pages")

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultPageDelay
	}
	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		days = defaultWindowDays
	}
	includeAll, _ := cmd.Flags().GetBool("all")
	format, _ := cmd.Flags().GetString("format")
	withKeywords, _ := cmd.Flags().GetBool("keywords")

	client := &http.Client{Timeout: timeout}
	harvestCfg := types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent},
		PageDelay:  delay,
		WindowDays: days,
	}

	harvester := &eprint.Harvester{Client: client, Config: harvestCfg}
	if withKeywords {
		harvester.Keywords = &eprint.Enricher{Client: client, Config: harvestCfg}
	}

	posted := map[string]struct{}{}
	if !includeAll {
		postedFile := setting(cmd, "posted-file", "sync.posted_file", defaultPostedFile)
		store, err := syncer.LoadPostedStore(postedFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: ignoring posted store: %v\n", err)
		}
		posted = store.IDs()
	}

	since := time.Now().In(types.KST).AddDate(0, 0, -days)
	engine := &syncer.Engine{Source: harvester}

	papers, err := engine.SyncSince(ctx, since, posted)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: harvest incomplete: %v\n", err)
	}

	switch format {
	case "yaml":
		data, err := yaml.Marshal(papers)
		if err != nil {
			return fmt.Errorf("marshaling papers: %w", err)
		}
		os.Stdout.Write(data)
	case "text":
		fmt.Printf("Found %d papers\n\n", len(papers))
		for _, p := range papers {
			printPaper(p)
		}
	default:
		return fmt.Errorf("unknown format %q (want text or yaml)", format)
	}
	return nil
}

// printPaper renders one paper in the text format.
func printPaper(p *types.Paper) {
	fmt.Printf("[%s] %s\n", p.ID, p.Title)

	authors := p.Authors
	if len(authors) > 3 {
		authors = authors[:3]
	}
	fmt.Printf("  Authors: %s\n", strings.Join(authors, ", "))
	fmt.Printf("  Categories: %s\n", strings.Join(p.Categories, ", "))
	fmt.Printf("  Keywords: %s\n", strings.Join(p.Keywords, ", "))

	date := "N/A"
	if !p.PublishedDate.IsZero() {
		date = p.PublishedDate.Format("2006-01-02 15:04 KST")
	}
	fmt.Printf("  Date: %s\n\n", date)
}
