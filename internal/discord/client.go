// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discord delivers papers to Discord channels over the REST API:
// a headline message per paper, then an embed and the abstract in a
// follow-up thread.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cryptodigest/eprint-watch/internal/httputil"
)

// apiBase is the Discord REST API root. Package-level var for test
// substitution.
var apiBase = "https://discord.com/api/v10"

// Client is a minimal Discord REST client covering the calls the
// pipeline needs: channel messages and message threads.
type Client struct {
	Token     string
	UserAgent string
	HTTP      *http.Client
}

// Message is the subset of Discord's message object the pipeline uses.
type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
}

// Channel is the subset of Discord's channel object returned when a
// thread is created.
type Channel struct {
	ID string `json:"id"`
}

// Embed is a Discord rich embed.
type Embed struct {
	Title     string       `json:"title,omitempty"`
	URL       string       `json:"url,omitempty"`
	Color     int          `json:"color,omitempty"`
	Fields    []EmbedField `json:"fields,omitempty"`
	Footer    *EmbedFooter `json:"footer,omitempty"`
	Timestamp string       `json:"timestamp,omitempty"`
}

// EmbedField is one name/value pair inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter is the embed footer line.
type EmbedFooter struct {
	Text string `json:"text"`
}

// messagePayload is the request body for message creation.
type messagePayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// threadPayload is the request body for thread creation on a message.
type threadPayload struct {
	Name                string `json:"name"`
	AutoArchiveDuration int    `json:"auto_archive_duration,omitempty"`
}

// SendMessage posts a plain content message to a channel.
func (c *Client) SendMessage(ctx context.Context, channelID, content string) (*Message, error) {
	var msg Message
	path := fmt.Sprintf("/channels/%s/messages", channelID)
	if err := c.post(ctx, path, messagePayload{Content: content}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SendEmbed posts an embed-only message to a channel.
func (c *Client) SendEmbed(ctx context.Context, channelID string, embed Embed) (*Message, error) {
	var msg Message
	path := fmt.Sprintf("/channels/%s/messages", channelID)
	if err := c.post(ctx, path, messagePayload{Embeds: []Embed{embed}}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CreateThread starts a thread on an existing message. archiveMinutes of
// zero leaves the server default in place.
func (c *Client) CreateThread(ctx context.Context, channelID, messageID, name string, archiveMinutes int) (*Channel, error) {
	var thread Channel
	path := fmt.Sprintf("/channels/%s/messages/%s/threads", channelID, messageID)
	payload := threadPayload{Name: name, AutoArchiveDuration: archiveMinutes}
	if err := c.post(ctx, path, payload, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// post sends one JSON request and decodes the JSON reply into out.
// Discord signals rate limits with 429s, so requests go through the
// shared retry helper.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot "+c.Token)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("Discord API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Discord API returned %d: %s", resp.StatusCode, string(body))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing Discord response: %w", err)
	}
	return nil
}
