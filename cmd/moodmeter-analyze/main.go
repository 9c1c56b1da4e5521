package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"moodmeter/internal/modkit"
	"moodmeter/internal/modkit/module"
	"moodmeter/internal/platform/config"
	perr "moodmeter/internal/platform/errors"
	"moodmeter/internal/platform/logger"
	pnet "moodmeter/internal/platform/net"

	arbdom "moodmeter/internal/services/arbiter/domain"
	arbmod "moodmeter/internal/services/arbiter/module"
	classmod "moodmeter/internal/services/classifier/module"
	transdom "moodmeter/internal/services/translation/domain"
	transmod "moodmeter/internal/services/translation/module"
)

// line is one output record, exactly one of Result or Error is set
type line struct {
	Input  string         `json:"input"`
	Result *arbdom.Result `json:"result,omitempty"`
	Error  *perr.Wire     `json:"error,omitempty"`
}

func main() { os.Exit(run()) }

// run returns the exit code so deferred cleanup happens before os.Exit
func run() int {
	var (
		backend    = flag.String("classifier", "", "classifier backend override (hf|vader)")
		translator = flag.String("translator", "", "translator backend override (google|libre|none)")
		initWait   = flag.Duration("init-timeout", 2*time.Minute, "how long to wait for the classifier to load")
		pretty     = flag.Bool("pretty", false, "indent JSON output")
	)
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "dotenv:", err)
	}
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := modkit.Deps{Log: l, Cfg: config.New()}

	cls := classmod.New(deps, classmod.Options{Backend: *backend})
	handle := cls.Handle()
	defer func() {
		if err := handle.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close classifier")
		}
	}()

	ictx, cancel := context.WithTimeout(ctx, *initWait)
	err := handle.Init(ictx)
	cancel()
	if err != nil {
		l.Error().Err(err).Msg("classifier init failed")
		return 1
	}

	tr := transmod.New(deps, transmod.Options{Backend: *translator})
	arb := arbmod.New(deps, arbmod.Options{}, modkit.WithPorts(arbdom.Ports{
		Classifier: handle,
		Translator: module.MustPortsOf[transdom.InvokerPort](tr),
	}))
	analyzer := module.MustPortsOf[arbdom.AnalyzerPort](arb)

	if err := analyzeAll(ctx, analyzer, flag.Args(), os.Stdin, os.Stdout, *pretty); err != nil {
		l.Error().Err(err).Msg("analyze failed")
		return 1
	}
	return 0
}

// analyzeAll writes one JSON line per text, taken from args or else from the lines of in
// analysis failures are reported in the line, only I/O errors are returned
func analyzeAll(ctx context.Context, a arbdom.AnalyzerPort, args []string, in io.Reader, w io.Writer, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}

	n := 0
	emit := func(text string) error {
		n++
		out := line{Input: text}
		res, err := a.Analyze(pnet.WithRequestID(ctx, fmt.Sprintf("cli-%d", n)), text)
		if err != nil {
			wire := perr.WireFrom(err)
			out.Error = &wire
		} else {
			out.Result = &res
		}
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	if len(args) > 0 {
		for _, text := range args {
			if err := emit(text); err != nil {
				return err
			}
		}
		return nil
	}
	if err := eachLine(ctx, in, emit); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// eachLine calls fn for every non-blank line of r until EOF, ctx ends or fn fails
func eachLine(ctx context.Context, r io.Reader, fn func(string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if err := fn(text); err != nil {
			return err
		}
	}
	return sc.Err()
}
