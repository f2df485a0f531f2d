// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discord

import (
	"context"
	"fmt"

	"github.com/cryptodigest/eprint-watch/internal/translate"
	"github.com/cryptodigest/eprint-watch/pkg/types"
)

// Poster delivers one paper at a time: headline in the channel, then an
// embed plus the abstract inside a thread hanging off the headline.
type Poster struct {
	Client *Client
	Config types.DiscordConfig
}

// PostPaper sends a paper to channelID. When tr is non-nil the headline,
// thread name, embed title, and abstract use the translated values. An
// error anywhere leaves the paper unposted so the caller can retry it on
// a later run.
func (p *Poster) PostPaper(ctx context.Context, channelID string, paper *types.Paper, tr *translate.Translation) error {
	title := paper.Title
	abstract := paper.Abstract
	if tr != nil {
		if tr.Title != "" {
			title = tr.Title
		}
		if tr.Abstract != "" {
			abstract = tr.Abstract
		}
	}

	msg, err := p.Client.SendMessage(ctx, channelID, Headline(paper, title))
	if err != nil {
		return fmt.Errorf("posting headline for %s: %w", paper.ID, err)
	}

	thread, err := p.Client.CreateThread(ctx, channelID, msg.ID, ThreadName(title), p.Config.ThreadArchiveMinutes)
	if err != nil {
		return fmt.Errorf("creating thread for %s: %w", paper.ID, err)
	}

	if _, err := p.Client.SendEmbed(ctx, thread.ID, BuildEmbed(paper, tr)); err != nil {
		return fmt.Errorf("posting embed for %s: %w", paper.ID, err)
	}

	chunkSize := p.Config.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	for _, content := range AbstractMessages(abstract, chunkSize) {
		if _, err := p.Client.SendMessage(ctx, thread.ID, content); err != nil {
			return fmt.Errorf("posting abstract for %s: %w", paper.ID, err)
		}
	}
	return nil
}
