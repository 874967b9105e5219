package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/yndnr/voltkv-go/internal/infra/buildinfo"
	"github.com/yndnr/voltkv-go/internal/infra/confloader"
	"github.com/yndnr/voltkv-go/internal/infra/shutdown"
	"github.com/yndnr/voltkv-go/internal/infra/tlsroots"
	"github.com/yndnr/voltkv-go/internal/server/config"
	"github.com/yndnr/voltkv-go/internal/server/redisserver"
	"github.com/yndnr/voltkv-go/internal/store"
	"github.com/yndnr/voltkv-go/internal/telemetry/logger"
	"github.com/yndnr/voltkv-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		addr        = flag.String("addr", "", "Listen address (overrides config)")
		debug       = flag.Bool("debug", false, "Enable debug logging")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("voltkv-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *debug {
		cfg.Log.Level = "debug"
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	slog.SetDefault(log)

	log.Info("starting voltkv-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	st := store.New()

	metrics := metric.NewRegistry()
	if err := metrics.Register(metric.NewKeyspaceCollector(keyspaceStats(st))); err != nil {
		return fmt.Errorf("register keyspace collector: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	srvCfg, certWatcher, err := serverConfig(cfg, log)
	if err != nil {
		return err
	}
	if certWatcher != nil {
		defer certWatcher.Stop()
	}

	srv := redisserver.New(srvCfg, st, metrics, shutdownHandler.Trigger, log)

	ctx := context.Background()
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	log.Info("server listening", "addr", srv.Addr())

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down server")
		return srv.Shutdown(ctx)
	})

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = startMetricsServer(cfg.Metrics.Addr, metrics, log)
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down metrics server")
			return metricsServer.Shutdown(ctx)
		})
	}

	watchConfig(*configFile, log)

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	loader := confloader.NewLoader(opts...)

	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// serverConfig maps the file configuration onto the listener
// configuration. When TLS is enabled, the returned watcher hot-reloads
// the certificate pair on change and must be stopped by the caller.
func serverConfig(cfg *config.ServerConfig, log *slog.Logger) (*redisserver.Config, *tlsroots.Watcher, error) {
	srvCfg := redisserver.DefaultConfig()
	srvCfg.PlainAddress = cfg.Server.Addr
	srvCfg.ReadTimeout = cfg.Server.ReadTimeout
	srvCfg.WriteTimeout = cfg.Server.WriteTimeout
	srvCfg.IdleTimeout = cfg.Server.IdleTimeout
	srvCfg.RateLimit = cfg.Server.RateLimit

	if !cfg.Server.TLS.Enabled {
		return srvCfg, nil, nil
	}

	watcher, err := tlsroots.NewWatcher(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile,
		tlsroots.WithLogger(log))
	if err != nil {
		return nil, nil, fmt.Errorf("load TLS certificate: %w", err)
	}
	watcher.StartAsync()

	srvCfg.TLSEnabled = true
	srvCfg.TLSAddress = cfg.Server.TLS.Addr
	srvCfg.TLSConfig = &tls.Config{
		GetCertificate: watcher.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
	return srvCfg, watcher, nil
}

// keyspaceStats adapts the store summary for the metrics collector.
func keyspaceStats(st *store.Store) metric.StatsSource {
	return func() metric.KeyspaceStats {
		s := st.Stats()
		return metric.KeyspaceStats{
			StringKeys:     s.StringKeys,
			ListKeys:       s.ListKeys,
			StreamKeys:     s.StreamKeys,
			SetKeys:        s.SetKeys,
			BlockedWaiters: s.BlockedWaiters,
		}
	}
}

// startMetricsServer serves the Prometheus endpoint on its own listener.
func startMetricsServer(addr string, metrics *metric.Registry, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server error", "error", err)
		}
	}()
	return srv
}

// watchConfig reloads the log level when the configuration file changes.
// Other settings require a restart.
func watchConfig(configFile string, log *slog.Logger) {
	if configFile == "" {
		return
	}

	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		log.Warn("config watcher unavailable", "error", err)
		return
	}
	if err := watcher.Watch(configFile); err != nil {
		log.Warn("config watch failed", "path", configFile, "error", err)
		return
	}

	watcher.OnChange(func(path string) {
		fresh, err := loadConfig(path)
		if err != nil {
			log.Warn("config reload failed", "path", path, "error", err)
			return
		}
		if fresh.Log.Level != logger.GetLevel() {
			logger.SetLevel(fresh.Log.Level)
			log.Info("log level changed", "level", fresh.Log.Level)
		}
	})
	watcher.StartAsync()
}
