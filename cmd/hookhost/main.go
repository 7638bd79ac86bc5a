// Command hookhost loads plugins and runs them until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/hookforge/internal/admin"
	"github.com/dshills/hookforge/internal/config"
	"github.com/dshills/hookforge/internal/logging"
	"github.com/dshills/hookforge/internal/metrics"
	"github.com/dshills/hookforge/internal/plugin"
)

// Version information (set via ldflags during build).
var version = "dev"

type options struct {
	configPath string
	plugins    string
	logLevel   string
	watch      bool
	adminAddr  string
	set        map[string]bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	applyFlags(cfg, opts)

	log, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, log); err != nil {
		log.WithError(err).Error("hookhost failed")
		return 1
	}
	return 0
}

func serve(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	managerConfig, err := cfg.ManagerConfig()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m, err := plugin.NewManager(managerConfig, plugin.WithLogger(log), plugin.WithMetrics(metrics.NewMetrics(reg)))
	if err != nil {
		return err
	}

	// Plugins that fail to load are logged and skipped.
	if err := m.LoadPlugins(ctx); err != nil {
		log.WithError(err).Warn("some plugins were not loaded")
	}
	log.WithFields(logrus.Fields{
		"plugins": len(m.Plugins()),
		"version": version,
	}).Info("hookhost started")

	m.CallHooksSetupPlugin(ctx)

	var watcher *plugin.Watcher
	if cfg.Watch.Enabled {
		watcher, err = plugin.NewWatcher(ctx, cfg.PluginPaths, m.ReloadPlugin,
			plugin.WithDebounce(time.Duration(cfg.Watch.Debounce)), plugin.WithWatcherLogger(log))
		if err != nil {
			log.WithError(err).Warn("hot reload disabled")
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Admin.Addr != "" {
		srv := admin.NewServer(m, reg, admin.WithLogger(log))
		g.Go(func() error {
			return srv.ListenAndServe(gctx, cfg.Admin.Addr)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		return nil
	})
	err = g.Wait()

	if watcher != nil {
		_ = watcher.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close fires TeardownPlugin for every active plugin.
	if cerr := m.Close(shutdownCtx); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func parseFlags() options {
	opts := options{set: make(map[string]bool)}
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to a TOML or YAML configuration file")
	flag.StringVar(&opts.plugins, "plugins", "", "Plugin search paths, separated by "+string(os.PathListSeparator))
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	flag.BoolVar(&opts.watch, "watch", false, "Reload plugins when their files change")
	flag.StringVar(&opts.adminAddr, "admin", "", "Serve the admin API on this address")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "hookhost - run hookforge plugins\n\n")
		fmt.Fprintf(os.Stderr, "Usage: hookhost [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  hookhost -plugins ./plugins -watch\n")
		fmt.Fprintf(os.Stderr, "  hookhost -config hookforge.toml -admin 127.0.0.1:9180\n")
	}

	flag.Parse()
	flag.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	if showVersion {
		fmt.Printf("hookhost %s\n", version)
		os.Exit(0)
	}
	return opts
}

// applyFlags overrides cfg with flags given on the command line.
func applyFlags(cfg *config.Config, opts options) {
	if opts.set["plugins"] {
		cfg.PluginPaths = filepath.SplitList(opts.plugins)
	}
	if opts.set["log-level"] {
		cfg.Log.Level = opts.logLevel
	}
	if opts.set["watch"] {
		cfg.Watch.Enabled = opts.watch
	}
	if opts.set["admin"] {
		cfg.Admin.Addr = opts.adminAddr
	}
}
