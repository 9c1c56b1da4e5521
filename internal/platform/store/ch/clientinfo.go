package ch

import (
	"runtime/debug"
	"strings"

	"moodmeter/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo names this binary in system.query_log
// role is the binary kind ("api", "analyze"), tag an optional deployment label
func BuildClientInfo(role, tag string) clickhouse.ClientInfo {
	bi := version.Info()
	commit := bi.Commit
	if commit == "" || commit == "none" {
		commit = vcsRevision()
	}

	var products []struct{ Name, Version string }
	add := func(name, v string) {
		if v = strings.TrimSpace(v); v != "" {
			products = append(products, struct{ Name, Version string }{name, v})
		}
	}
	add(bi.Service, bi.Version)
	add("role", role)
	add("tag", tag)
	add("commit", commit)
	add("go", bi.Go)
	return clickhouse.ClientInfo{Products: products}
}

// vcsRevision falls back to the revision the toolchain stamps into module builds
func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}
