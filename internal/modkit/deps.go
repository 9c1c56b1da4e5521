package modkit

import (
	"moodmeter/internal/modkit/repokit"
	"moodmeter/internal/platform/config"
	"moodmeter/internal/platform/logger"
	"moodmeter/internal/platform/metrics"
	"moodmeter/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// every field may be zero; modules nil check the optional stores
type Deps struct {
	Log     *logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	CH      store.Clickhouse
	Metrics *metrics.Metrics
}

// Logger returns the injected logger or a named child of the root logger
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log != nil {
		l := d.Log.With().Str("component", component).Logger()
		return &l
	}
	return logger.Named(component)
}

// FromStore copies the store handles into deps, a nil store leaves them empty
func (d Deps) FromStore(s *store.Store) Deps {
	if s == nil {
		return d
	}
	if s.PG != nil {
		d.PG = s.PG
	}
	if s.CH != nil {
		d.CH = s.CH
	}
	return d
}
