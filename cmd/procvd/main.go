// Command procvd supervises one or more groups of processes described by
// a configuration file, restarting them per group according to each
// group's restart policy and propagating restarts across declared
// dependencies.
//
// Grounded on cmd/zmux-server/main.go: one zap.Logger built once and
// threaded via .Named/.With, a gin router assembled the same way when
// the optional status API is enabled, and errors surfaced with
// pkg/errchain the way the teacher's fatal paths bubble up redis/config
// failures.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/itexoft/procvd/internal/config"
	"github.com/itexoft/procvd/internal/depgraph"
	"github.com/itexoft/procvd/internal/executor"
	"github.com/itexoft/procvd/internal/httpapi"
	"github.com/itexoft/procvd/internal/redisclient"
	"github.com/itexoft/procvd/internal/sink"
	"github.com/itexoft/procvd/internal/supervisor"
	"github.com/itexoft/procvd/pkg/errchain"
)

func main() {
	var subcommand string
	args := os.Args[1:]
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		subcommand = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("procvd", flag.ExitOnError)
	boot, err := config.ParseBootConfig(fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse boot config:", err)
		os.Exit(2)
	}

	if boot.SampleConfigRequested {
		if err := config.WriteSample(os.Stdout, boot.ConfigFormat); err != nil {
			fmt.Fprintln(os.Stderr, "write sample config:", err)
			os.Exit(1)
		}
		return
	}

	log := buildLogger(boot.LogFormat)
	defer log.Sync()
	log = log.Named("main")

	raw, err := loadRawConfig(boot)
	if err != nil {
		log.Error("load config failed", zap.Error(err))
		reportFatal(err, boot.Verbose)
		os.Exit(1)
	}

	resolved, err := config.Resolve(raw)
	if err != nil {
		log.Error("resolve config failed", zap.Error(err))
		reportFatal(err, boot.Verbose)
		os.Exit(1)
	}

	switch subcommand {
	case "dump-config":
		spew.Dump(resolved)
		return
	case "", "run":
		// fall through to supervision below
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", subcommand)
		os.Exit(2)
	}

	graph, err := depgraph.FromConfig(resolved)
	if err != nil {
		log.Error("dependency graph build failed", zap.Error(err))
		reportFatal(err, boot.Verbose)
		os.Exit(1)
	}

	snk, buffer, closeSinks := buildSinks(boot, log)
	defer closeSinks()

	ex := executor.NewDefaultExecutor(log, 0, 0)
	top := supervisor.NewTopLevelSupervisor(resolved, graph, ex, snk, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if boot.HTTPAddr != "" {
		server := httpapi.New(resolved, buffer, top, log)
		go func() {
			if err := server.Run(ctx, boot.HTTPAddr, boot.HTTPDevCORS); err != nil {
				log.Error("status api failed", zap.Error(err))
			}
		}()
		log.Info("status api listening", zap.String("addr", boot.HTTPAddr))
	}

	log.Info("supervision starting", zap.Strings("groups", top.GroupNames()))
	if err := top.Run(ctx); err != nil {
		log.Error("supervision exited with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("supervision stopped")
}

// reportFatal prints a fatal error's unwrap chain to stdout. With
// verbose set (--verbose/PROCVD_VERBOSE) it spew-dumps each layer's
// fields via errchain.PrintDebug; otherwise it prints one line per
// layer via errchain.Print.
func reportFatal(err error, verbose bool) {
	if verbose {
		errchain.PrintDebug(err)
		return
	}
	errchain.Print(err)
}

func loadRawConfig(boot *config.BootConfig) (*config.RawConfig, error) {
	switch boot.ConfigFormat {
	case "ini":
		return config.LoadINI(boot.ConfigPath)
	case "json", "":
		return config.LoadJSON(boot.ConfigPath)
	default:
		return nil, fmt.Errorf("unknown config format %q", boot.ConfigFormat)
	}
}

// buildLogger mirrors the teacher's development-config logger (colored
// level, no timestamp key, stacktraces and caller disabled) for the
// console format, and falls back to zap's production JSON config
// otherwise so procvd's own logs can be shipped the same way supervised
// process output can.
func buildLogger(format string) *zap.Logger {
	if format == "json" {
		return zap.Must(zap.NewProductionConfig().Build())
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	return zap.Must(cfg.Build())
}

// buildSinks assembles the console/buffer/Redis fan-out every invocation
// writes through. The buffer sink is always constructed, even when the
// status API (its only reader) is disabled; constructing it
// unconditionally keeps that wiring simple.
func buildSinks(boot *config.BootConfig, log *zap.Logger) (sink.Sink, *sink.BufferSink, func()) {
	buffer := sink.NewBufferSink(2000)
	multi := sink.Multi{sink.NewConsoleSink(os.Stdout, !color.NoColor), buffer}

	closeFn := func() {}

	if boot.RedisAddr != "" {
		client := redisclient.NewClient(boot.RedisAddr, 0, log)
		multi = append(multi, sink.NewRedisSink(client.Client, log, 10000))
		closeFn = func() { _ = client.Close() }
	}

	return multi, buffer, closeFn
}
