// Command sysgauges exports the library's filesystem, operating-system and
// runtime gauges as a Prometheus scrape target.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/turn/metrics-system/gauge"
	"github.com/turn/metrics-system/internal/config"
	"github.com/turn/metrics-system/internal/httpapi"
	"github.com/turn/metrics-system/internal/logging"
	"github.com/turn/metrics-system/promexport"
	"github.com/turn/metrics-system/system"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	fsOpts := []system.FilesystemOption{
		system.WithZeroUsableMounts(cfg.IncludeZeroUsable),
	}
	if cfg.MountNaming == config.MountNamingPath {
		fsOpts = append(fsOpts, system.WithMountNamer(system.MountNameByPath))
	}
	fsSet, err := system.NewFilesystemSet(system.HostMounts(), fsOpts...)
	if err != nil {
		log.Fatalf("filesystem gauges: %v", err)
	}
	osSet := system.NewOperatingSystemSet(system.HostOSInfo())
	runtimeSet := system.NewRuntimeSet(system.HostRuntimeInfo())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		promexport.NewCollector(cfg.Namespace, fsSet),
		promexport.NewCollector(cfg.Namespace, gauge.Prefixed("os", osSet)),
		promexport.NewCollector(cfg.Namespace, gauge.Prefixed("runtime", runtimeSet)),
	)

	logger.Info("gauges registered",
		"filesystem", len(fsSet),
		"os", len(osSet),
		"runtime", len(runtimeSet),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := httpapi.NewServer(cfg, logger, registry)
	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
