package module

import (
	"time"

	"modelwatch/internal/platform/config"
)

// Options holds configuration for the scrape runner
type Options struct {
	// Artifact locations
	OutDir   string
	DataDir  string
	FeedFile string

	// Feed channel metadata and retention, zero MaxEntries keeps every entry
	FeedTitle  string
	FeedLink   string
	FeedDesc   string
	FeedLang   string
	MaxEntries int

	// Fetch tuning
	UserAgent    string
	FetchTimeout time.Duration
	MaxRetries   int
	RetryBase    time.Duration

	// SnapshotBackend picks where prior runs live, file or pg
	SnapshotBackend string
}

// FromConfig reads the scrape options from config with MODELWATCH_SCRAPE_ prefix
func FromConfig(cfg config.Conf) Options {
	sc := cfg.Prefix("MODELWATCH_SCRAPE_")
	return Options{
		OutDir:   sc.MayString("OUT_DIR", "public"),
		DataDir:  sc.MayString("DATA_DIR", "data"),
		FeedFile: sc.MayString("FEED_FILE", "feed.xml"),

		FeedTitle:  sc.MayString("FEED_TITLE", "AI Model Retirement Updates"),
		FeedLink:   sc.MayString("FEED_LINK", ""),
		FeedDesc:   sc.MayString("FEED_DESC", "Vendor announced model deprecation and retirement changes."),
		FeedLang:   sc.MayString("FEED_LANG", "en-us"),
		MaxEntries: sc.MayInt("FEED_MAX_ENTRIES", 0),

		UserAgent:    sc.MayString("USER_AGENT", ""),
		FetchTimeout: sc.MayDuration("FETCH_TIMEOUT", 30*time.Second),
		MaxRetries:   sc.MayInt("RETRIES", 3),
		RetryBase:    sc.MayDuration("RETRY_BASE", 500*time.Millisecond),

		SnapshotBackend: sc.MayEnum("SNAPSHOT_BACKEND", "file", "file", "pg"),
	}
}
