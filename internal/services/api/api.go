// Package api provides the HTTP API for the application
package api

import (
	"strings"

	"moodmeter/internal/platform/config"
	"moodmeter/internal/platform/logger"
	"moodmeter/internal/platform/metrics"
	phttp "moodmeter/internal/platform/net/http"
	"moodmeter/internal/platform/store"

	"moodmeter/internal/modkit"
	"moodmeter/internal/modkit/httpkit"
	"moodmeter/internal/modkit/module"
	"moodmeter/internal/modkit/swaggerkit"

	ledgerapi "moodmeter/internal/services/api/ledger/module"
	metamod "moodmeter/internal/services/api/meta/module"
	sentimentmod "moodmeter/internal/services/api/sentiment/module"

	arbdom "moodmeter/internal/services/arbiter/domain"
	classdom "moodmeter/internal/services/classifier/domain"
	ledgerdom "moodmeter/internal/services/ledger/domain"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
	EnableSwagger  bool
	EnableProfiler bool

	// ports of the service modules built by the composition root
	Classifier classdom.HandlePort
	Analyzer   arbdom.AnalyzerPort
	Ledger     ledgerdom.ReaderPort // nil leaves the ledger routes unmounted
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Log:     opt.Logger,
		Cfg:     opt.Config,
		Metrics: opt.Metrics,
	}.FromStore(opt.Store)

	sentiment := sentimentmod.New(deps, modkit.WithPorts(sentimentmod.Ports{Analyzer: opt.Analyzer}))

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{Classifier: opt.Classifier})),
		sentiment,
	}
	if opt.Ledger != nil {
		mods = append(mods, ledgerapi.New(deps, modkit.WithPorts(ledgerapi.Ports{Reader: opt.Ledger})))
	} else {
		swaggerkit.Register(dropPaths("/api/v1/ledger/"))
	}

	// outside the common stack so scrapes and docs stay out of the access log
	if opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	r.Group(func(g phttp.Router) {
		g.Use(httpkit.CommonStack(opt.Config.Prefix("CORE_API_"), opt.Metrics.HTTP)...)

		// unversioned routes with bare bodies
		sentiment.MountLegacy(g)

		// versioned API
		httpkit.MountAPIV1(g, nil, func(api httpkit.Router) {
			for _, m := range mods {
				// record what is mounted, /meta/service reports it
				module.Register(m.Name())

				// mount module routes under its prefix
				m.MountRoutes(api)
			}
		})
	})
}

// dropPaths removes documented paths under prefix
func dropPaths(prefix string) swaggerkit.SpecMutator {
	return func(spec map[string]any) {
		paths, ok := spec["paths"].(map[string]any)
		if !ok {
			return
		}
		for p := range paths {
			if strings.HasPrefix(p, prefix) {
				delete(paths, p)
			}
		}
	}
}
