// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/cryptodigest/eprint-watch/internal/translate"
	"github.com/cryptodigest/eprint-watch/pkg/types"
)

const (
	// DefaultChunkSize keeps abstract messages under Discord's
	// 2000-character limit with headroom for the header line.
	DefaultChunkSize = 1900

	// headlineTitleLimit is the character budget for the title in the
	// channel headline.
	headlineTitleLimit = 70

	// threadNameLimit is Discord's maximum thread name length.
	threadNameLimit = 100

	// embedColor is the accent color for paper embeds.
	embedColor = 0x3498db
)

// Headline renders the one-line channel message for a paper, tagged with
// its ID. The title may already be translated.
func Headline(paper *types.Paper, title string) string {
	return fmt.Sprintf("📄[%s] **%s**", paper.ID, truncate(title, headlineTitleLimit))
}

// ThreadName renders the thread title for a paper.
func ThreadName(title string) string {
	return clip(title, threadNameLimit)
}

// BuildEmbed renders the structured detail payload for a paper. When tr
// is non-nil its title replaces the original and its keywords, if they
// align one-to-one with the originals, render as "english(korean)" pairs.
func BuildEmbed(paper *types.Paper, tr *translate.Translation) Embed {
	title := paper.Title
	if tr != nil && tr.Title != "" {
		title = tr.Title
	}

	embed := Embed{
		Title: title,
		URL:   paper.URL,
		Color: embedColor,
		Footer: &EmbedFooter{
			Text: "ePrint " + paper.ID,
		},
	}

	embed.Fields = append(embed.Fields, EmbedField{
		Name:  "Authors",
		Value: joinOrNA(paper.Authors),
	})
	embed.Fields = append(embed.Fields, EmbedField{
		Name:   "Category",
		Value:  joinOrNA(paper.Categories),
		Inline: true,
	})
	embed.Fields = append(embed.Fields, EmbedField{
		Name:  "Keywords",
		Value: keywordsValue(paper, tr),
	})
	embed.Fields = append(embed.Fields, EmbedField{
		Name:   "Published",
		Value:  formatDate(paper.PublishedDate),
		Inline: true,
	})
	embed.Fields = append(embed.Fields, EmbedField{
		Name:   "PDF",
		Value:  fmt.Sprintf("[Download](%s)", paper.PDFURL),
		Inline: true,
	})

	if !paper.PublishedDate.IsZero() {
		embed.Timestamp = paper.PublishedDate.Format(time.RFC3339)
	}
	return embed
}

// keywordsValue pairs original keywords with their translations when the
// lists align; otherwise it falls back to the originals.
func keywordsValue(paper *types.Paper, tr *translate.Translation) string {
	if tr != nil && len(paper.Keywords) > 0 && len(tr.Keywords) == len(paper.Keywords) {
		pairs := make([]string, len(paper.Keywords))
		for i, en := range paper.Keywords {
			pairs[i] = fmt.Sprintf("%s(%s)", en, tr.Keywords[i])
		}
		return strings.Join(pairs, ", ")
	}
	return joinOrNA(paper.Keywords)
}

// AbstractMessages splits an abstract into messages of at most chunkSize
// characters. A single chunk is headed "**Abstract**"; multiple chunks
// are numbered "**Abstract (i/n)**". An empty abstract yields nothing.
func AbstractMessages(abstract string, chunkSize int) []string {
	if abstract == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	chunks := chunk(abstract, chunkSize)
	messages := make([]string, len(chunks))
	for i, c := range chunks {
		if len(chunks) > 1 {
			messages[i] = fmt.Sprintf("**Abstract (%d/%d)**\n%s", i+1, len(chunks), c)
		} else {
			messages[i] = "**Abstract**\n" + c
		}
	}
	return messages
}

// chunk splits s into rune-safe pieces of at most size runes.
func chunk(s string, size int) []string {
	runes := []rune(s)
	var out []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

// truncate clips s to limit runes, appending an ellipsis when clipped.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// clip cuts s to limit runes with no ellipsis.
func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// joinOrNA joins values with commas, or "N/A" when empty.
func joinOrNA(values []string) string {
	if len(values) == 0 {
		return "N/A"
	}
	return strings.Join(values, ", ")
}

// formatDate renders a KST timestamp for the embed, or "N/A" for the
// zero time.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.In(types.KST).Format("2006-01-02 15:04 KST")
}
