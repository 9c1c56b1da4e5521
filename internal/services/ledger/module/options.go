package module

import (
	"time"

	"moodmeter/internal/platform/config"
)

// Options holds configuration settings for the ledger module
type Options struct {
	Enabled      bool
	Buffer       int
	BatchSize    int
	FlushEvery   time.Duration
	WriteTimeout time.Duration
	EnsureSchema bool
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	cf := cfg.Prefix("LEDGER_")
	return Options{
		Enabled:      cf.MayBool("ENABLED", false),
		Buffer:       cf.MayIntIn("BUFFER", 256, 1, 1<<16),
		BatchSize:    cf.MayIntIn("BATCH", 64, 1, 10000),
		FlushEvery:   cf.MayDuration("FLUSH_EVERY", time.Second),
		WriteTimeout: cf.MayDuration("WRITE_TIMEOUT", 5*time.Second),
		EnsureSchema: cf.MayBool("ENSURE_SCHEMA", true),
	}
}
