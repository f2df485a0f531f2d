package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cryptodigest/eprint-watch/internal/archive"
	"github.com/cryptodigest/eprint-watch/internal/discord"
	"github.com/cryptodigest/eprint-watch/internal/eprint"
	"github.com/cryptodigest/eprint-watch/internal/syncer"
	"github.com/cryptodigest/eprint-watch/internal/translate"
	"github.com/cryptodigest/eprint-watch/pkg/types"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultPageDelay  = 500 * time.Millisecond
	defaultWindowDays = 4
	defaultUserAgent  = "eprint-watch/0.1"
	defaultPostedFile = "posted_papers.json"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Harvest new papers and post them to Discord",
	Long: `Run executes one full pipeline pass: harvest papers published within the
lookback window, drop the ones already posted, then deliver the remainder
oldest-first. Each successfully posted ID is persisted immediately, so a
crash mid-run never re-posts delivered papers.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Int("days", 0, "lookback window in days (default 4)")
	runCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	runCmd.Flags().Duration("delay", 0, "delay between OAI-PMH pages (default 500ms)")
	runCmd.Flags().String("posted-file", "", "posted-ID store path (default posted_papers.json)")
	runCmd.Flags().String("archive-db", "", "SQLite archive path (empty disables archiving)")
	runCmd.Flags().String("channel", "", "Discord channel ID")
	runCmd.Flags().String("channel-kr", "", "Discord channel ID for the Korean rendition")
	runCmd.Flags().Bool("dry-run", false, "list new papers without posting or persisting")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
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
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	postedFile := setting(cmd, "posted-file", "sync.posted_file", defaultPostedFile)
	archiveDB := setting(cmd, "archive-db", "archive.db_path", "")
	channelID := setting(cmd, "channel", "discord.channel_id", "")
	channelKR := setting(cmd, "channel-kr", "discord.channel_id_kr", "")
	botToken := secretDefault("discord-bot-token", viper.GetString("discord.bot_token"))
	cerebrasKey := secretDefault("cerebras-api-key", viper.GetString("translate.api_key"))

	if !dryRun {
		if channelID == "" {
			return fmt.Errorf("a Discord channel ID is required (--channel or discord.channel_id in the config)")
		}
		if botToken == "" {
			return fmt.Errorf("a Discord bot token is required (.secrets/discord-bot-token or discord.bot_token)")
		}
	}

	client := &http.Client{Timeout: timeout}

	harvestCfg := types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent},
		PageDelay:  delay,
		WindowDays: days,
	}

	store, err := syncer.LoadPostedStore(postedFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: starting with empty posted store: %v\n", err)
	}

	since := time.Now().In(types.KST).AddDate(0, 0, -days)
	fmt.Printf("Checking for papers since %s (%d already posted)\n",
		since.Format("2006-01-02 15:04 KST"), store.Len())

	engine := &syncer.Engine{
		Source: &eprint.Harvester{
			Client:   client,
			Config:   harvestCfg,
			Keywords: &eprint.Enricher{Client: client, Config: harvestCfg},
		},
	}

	papers, err := engine.SyncSince(ctx, since, store.IDs())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: harvest incomplete: %v\n", err)
	}
	fmt.Printf("New papers: %d\n", len(papers))

	if len(papers) == 0 {
		return nil
	}

	if dryRun {
		for _, p := range papers {
			fmt.Printf("[%s] %s\n", p.ID, p.Title)
		}
		return nil
	}

	poster := &discord.Poster{
		Client: &discord.Client{Token: botToken, UserAgent: defaultUserAgent, HTTP: client},
		Config: types.DiscordConfig{
			HTTPConfig:           types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent},
			ChannelID:            channelID,
			ChannelIDKR:          channelKR,
			ChunkSize:            discord.DefaultChunkSize,
			ThreadArchiveMinutes: 1440,
		},
	}

	var translator *translate.Translator
	if channelKR != "" {
		translator = &translate.Translator{
			Backend: &translate.CerebrasBackend{
				APIKey: cerebrasKey,
				Model:  viper.GetString("translate.model"),
				Client: client,
			},
		}
	}

	var paperArchive *archive.Store
	if archiveDB != "" {
		paperArchive, err = archive.Open(archiveDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: archive disabled: %v\n", err)
		} else {
			defer paperArchive.Close()
		}
	}

	sent := 0
	for _, paper := range papers {
		if err := poster.PostPaper(ctx, channelID, paper, nil); err != nil {
			fmt.Fprintf(os.Stderr, "error posting %s: %v\n", paper.ID, err)
			continue
		}
		sent++
		fmt.Printf("Sent: [%s] %s\n", paper.ID, paper.Title)

		// Persist immediately after each delivery so a crash later in
		// the run cannot re-post this paper.
		store.Add(paper.ID)
		if err := store.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: saving posted store: %v\n", err)
		}

		if paperArchive != nil {
			if err := paperArchive.Record(ctx, paper); err != nil {
				fmt.Fprintf(os.Stderr, "warning: archiving %s: %v\n", paper.ID, err)
			}
		}

		if channelKR != "" {
			tr, trErr := translator.TranslatePaper(ctx, paper)
			if trErr != nil {
				fmt.Fprintf(os.Stderr, "warning: translation for %s fell back to English: %v\n", paper.ID, trErr)
			}
			if err := poster.PostPaper(ctx, channelKR, paper, &tr); err != nil {
				fmt.Fprintf(os.Stderr, "error posting %s to KR channel: %v\n", paper.ID, err)
			} else {
				fmt.Printf("Sent (KR): [%s]\n", paper.ID)
			}
		}
	}

	fmt.Printf("Done. Sent %d of %d papers.\n", sent, len(papers))
	return nil
}
