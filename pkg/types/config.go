package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "eprint-watch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// HarvestConfig holds settings for the OAI-PMH harvester.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the ePrint archive root (default "https://eprint.iacr.org").
	// The OAI endpoint and per-paper pages are derived from it.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// PageDelay is the courtesy delay between consecutive paginated
	// requests (default 500ms). No delay before the first page.
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// WindowDays is how many days back a run looks for papers (default 4).
	// The posted-ID store keeps overlapping windows from double-posting.
	WindowDays int `json:"window_days" yaml:"window_days"`
}

// DiscordConfig holds settings for the Discord delivery channel.
type DiscordConfig struct {
	HTTPConfig `yaml:",inline"`

	// BotToken authenticates against the Discord REST API.
	BotToken string `json:"bot_token,omitempty" yaml:"bot_token,omitempty"`

	// ChannelID is the channel papers are announced in.
	ChannelID string `json:"channel_id" yaml:"channel_id"`

	// ChannelIDKR is an optional second channel that receives the
	// Korean-translated rendition. Empty disables translation entirely.
	ChannelIDKR string `json:"channel_id_kr,omitempty" yaml:"channel_id_kr,omitempty"`

	// ChunkSize is the maximum characters per abstract message (default 1900,
	// just under Discord's 2000-character limit).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// ThreadArchiveMinutes is the auto-archive duration for per-paper
	// threads (default 1440).
	ThreadArchiveMinutes int `json:"thread_archive_minutes" yaml:"thread_archive_minutes"`
}

// TranslateConfig holds settings for the translation backend.
type TranslateConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the chat model identifier (default "gpt-oss-120b").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the Cerebras API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// SyncConfig holds settings for the incremental sync state.
type SyncConfig struct {
	// PostedFile is the JSON file recording already-posted paper IDs
	// (default "posted_papers.json").
	PostedFile string `json:"posted_file" yaml:"posted_file"`
}

// ArchiveConfig holds settings for the local paper archive.
type ArchiveConfig struct {
	// DBPath is the SQLite database file (default "eprint-watch.db").
	// Empty disables archiving.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	Harvest   HarvestConfig   `json:"harvest" yaml:"harvest"`
	Sync      SyncConfig      `json:"sync" yaml:"sync"`
	Discord   DiscordConfig   `json:"discord" yaml:"discord"`
	Translate TranslateConfig `json:"translate" yaml:"translate"`
	Archive   ArchiveConfig   `json:"archive" yaml:"archive"`
}
