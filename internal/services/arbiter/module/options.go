package module

import (
	"moodmeter/internal/platform/config"

	"github.com/jonboulle/clockwork"
)

// Options holds configuration settings for the arbiter module
type Options struct {
	BatchWorkers     int
	LangMinLetters   int
	LangMinConfident float64

	// Clock defaults to the real clock
	Clock clockwork.Clock
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	api := cfg.Prefix("CORE_API_")
	lh := cfg.Prefix("LANGHINT_")
	return Options{
		BatchWorkers:     api.MayIntIn("BATCH_WORKERS", 4, 1, 64),
		LangMinLetters:   lh.MayInt("MIN_LETTERS", 2),
		LangMinConfident: lh.MayFloat64("MIN_CONFIDENCE", 0),
	}
}
