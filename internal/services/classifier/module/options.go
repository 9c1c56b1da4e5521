package module

import (
	"time"

	"moodmeter/internal/adapters/classify/hfinference"
	"moodmeter/internal/platform/config"
)

// Options holds configuration settings for the classifier module
type Options struct {
	Backend     string // hf | vader
	HFBaseURL   string
	HFModel     string
	HFToken     string
	HFWait      bool
	HTTPTimeout time.Duration
	Timeout     time.Duration
	MaxInflight int
	Warmup      bool
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	cf := cfg.Prefix("CLASSIFIER_")
	return Options{
		Backend:     cf.MayEnum("BACKEND", "hf", "hf", "vader"),
		HFBaseURL:   cf.MayURL("HF_BASE_URL", hfinference.DefaultBaseURL),
		HFModel:     cf.MayString("HF_MODEL", hfinference.DefaultModel),
		HFToken:     cf.MayString("HF_TOKEN", ""),
		HFWait:      cf.MayBool("HF_WAIT_FOR_MODEL", true),
		HTTPTimeout: cf.MayDuration("HTTP_TIMEOUT", 30*time.Second),
		Timeout:     cf.MayDuration("TIMEOUT", 0),
		MaxInflight: cf.MayIntIn("MAX_INFLIGHT", 8, 1, 1024),
		Warmup:      cf.MayBool("WARMUP", true),
	}
}
