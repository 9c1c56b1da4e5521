// @title         moodmeter API
// @version       1.0
// @description   Multilingual sentiment analysis with confidence-gated translation arbitration

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moodmeter/internal/modkit"
	"moodmeter/internal/modkit/module"
	"moodmeter/internal/platform/config"
	"moodmeter/internal/platform/logger"
	"moodmeter/internal/platform/metrics"
	phttp "moodmeter/internal/platform/net/http"
	"moodmeter/internal/platform/store"

	"moodmeter/internal/services/api"
	arbdom "moodmeter/internal/services/arbiter/domain"
	arbmod "moodmeter/internal/services/arbiter/module"
	classdom "moodmeter/internal/services/classifier/domain"
	classmod "moodmeter/internal/services/classifier/module"
	ledgerdom "moodmeter/internal/services/ledger/domain"
	ledgermod "moodmeter/internal/services/ledger/module"
	transdom "moodmeter/internal/services/translation/domain"
	transmod "moodmeter/internal/services/translation/module"
)

func main() {
	// .env first so the logger and config see it
	if err := config.LoadDotEnv(); err != nil {
		logger.Get().Warn().Err(err).Msg("dotenv not loaded")
	}
	logger.Init(logger.FromEnv())
	l := logger.Get()

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stores are optional, they only back the ledger
	st, err := store.Open(ctx, store.FromEnv(root, "moodmeter", "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if err := st.Guard(ctx); err != nil {
		l.Warn().Err(err).Msg("store not reachable yet, ledger writes will fail until it is")
	}

	met := metrics.New()
	deps := modkit.Deps{Log: l, Cfg: root, Metrics: met}.FromStore(st)

	// classifier loads in the background, requests are rejected until it is ready
	cls := classmod.New(deps, classmod.Options{})
	handle := cls.Handle()
	handle.Start(ctx)
	defer func() {
		if err := handle.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close classifier")
		}
	}()

	tr := transmod.New(deps, transmod.Options{})

	ledger := ledgermod.New(deps, ledgermod.Options{})
	if err := ledger.Start(ctx); err != nil {
		l.Panic().Err(err).Msg("ledger start failed")
	}
	// both stay nil while the ledger is disabled
	recorder, _ := module.PortsOf[ledgerdom.RecorderPort](ledger)
	reader, _ := module.PortsOf[ledgerdom.ReaderPort](ledger)

	arb := arbmod.New(deps, arbmod.Options{}, modkit.WithPorts(arbdom.Ports{
		Classifier: module.MustPortsOf[classdom.HandlePort](cls),
		Translator: module.MustPortsOf[transdom.InvokerPort](tr),
		Ledger:     recorder,
	}))

	// http server (reads CORE_API_API_PORT / CORE_API_SHUTDOWN_GRACE)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			Metrics:        met,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			Classifier:     handle,
			Analyzer:       module.MustPortsOf[arbdom.AnalyzerPort](arb),
			Ledger:         reader,
		},
	)

	// run until SIGINT/SIGTERM, the server drains for its grace period
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}

	// flush pending ledger entries before the store closes
	fctx, cancel := context.WithTimeout(context.Background(), apiCfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second))
	defer cancel()
	if err := ledger.Close(fctx); err != nil {
		l.Error().Err(err).Msg("failed to flush ledger")
	}
	l.Info().Msg("shutdown complete")
}
