package module

import (
	"time"

	"moodmeter/internal/platform/config"
)

// Options holds configuration settings for the translation module
type Options struct {
	Backend         string // google | libre | none
	Timeout         time.Duration
	BaseURL         string
	APIKey          string
	RPS             float64
	Burst           int
	BreakerFailures int
	BreakerCooldown time.Duration
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	tf := cfg.Prefix("TRANSLATOR_")
	return Options{
		Backend:         tf.MayEnum("BACKEND", "google", "google", "libre", "none"),
		Timeout:         tf.MayDuration("TIMEOUT", 3*time.Second),
		BaseURL:         tf.MayURL("BASE_URL", ""),
		APIKey:          tf.MayString("API_KEY", ""),
		RPS:             tf.MayFloat64("RPS", 0),
		Burst:           tf.MayIntIn("BURST", 1, 1, 1000),
		BreakerFailures: tf.MayIntIn("BREAKER_FAILURES", 5, 0, 1000),
		BreakerCooldown: tf.MayDuration("BREAKER_COOLDOWN", 30*time.Second),
	}
}
