package store

import (
	"time"

	"moodmeter/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	// AppName tags clickhouse client info and the pg application_name
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // default 6
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	Role    string
}

// FromEnv reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_* from the given root view
// a backend is enabled when its DBURL is set
func FromEnv(c config.Conf, appName, role string) Config {
	pgc := c.Prefix("SERVICE_PGSQL_")
	chc := c.Prefix("SERVICE_CLICKHOUSE_")

	pgURL := pgc.MayString("DBURL", "")
	chURL := chc.MayString("DBURL", "")
	return Config{
		AppName: appName,
		PG: PGConfig{
			Enabled:        pgURL != "",
			URL:            pgURL,
			MaxConns:       int32(pgc.MayIntIn("MAX_CONNS", 4, 1, 256)),
			LogSQL:         pgc.MayBool("LOG_SQL", false),
			SlowQueryMs:    pgc.MayInt("SLOW_MS", 250),
			ConnectRetries: pgc.MayIntIn("CONNECT_RETRIES", 6, 1, 50),
			PingTimeout:    pgc.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		CH: CHConfig{
			Enabled: chURL != "",
			URL:     chURL,
			Role:    role,
		},
	}
}
