// dhcp4mon listens for DHCPv4 traffic and logs a summary of every message.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	nethttp "net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/bobbymcr/DhcpServer-sub000/internal/config"
	"github.com/bobbymcr/DhcpServer-sub000/internal/dhcp"
	"github.com/bobbymcr/DhcpServer-sub000/internal/logging"
	"github.com/bobbymcr/DhcpServer-sub000/internal/macvendor"
	"github.com/bobbymcr/DhcpServer-sub000/internal/metrics"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "/etc/dhcp4/config.toml", "path to configuration file")
	initConfig := flag.Bool("init-config", false, "write a default configuration to -config and exit")
	flag.Parse()

	if *initConfig {
		if err := config.Write(*configPath, config.Default(), false); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "default configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Server.LogLevel, cfg.Server.LogFormat, os.Stdout)
	logger.Info("dhcp4mon starting",
		"version", version,
		"config", *configPath,
		"bind", cfg.Server.BindAddress,
		"interface", cfg.Server.Interface,
		"channels", cfg.Server.Channels)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("dhcp4mon failed", "error", err)
		os.Exit(1)
	}
	logger.Info("dhcp4mon stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	sock, err := dhcp.ListenUDP(cfg.Server.BindAddress)
	if err != nil {
		return err
	}
	defer sock.Close()

	if cfg.Server.Interface != "" {
		iface, err := net.InterfaceByName(cfg.Server.Interface)
		if err != nil {
			return fmt.Errorf("looking up interface %s: %w", cfg.Server.Interface, err)
		}
		sock.RestrictToInterface(iface.Index)
	}
	logger.Info("socket bound", "addr", sock.LocalAddr().String())

	metrics.ServerInfo.WithLabelValues(version).Set(1)
	metrics.ServerStartTime.Set(float64(time.Now().Unix()))

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Enabled {
		srv := &nethttp.Server{
			Addr:              cfg.Metrics.Listen,
			Handler:           metricsMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("metrics server listening", "listen", cfg.Metrics.Listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	limiter := dhcp.NewRateLimiter(cfg.LogThrottle.Enabled,
		cfg.LogThrottle.GlobalPerSecond, cfg.LogThrottle.PerClientPerSecond)
	monitorOpts := []dhcp.MonitorOption{
		dhcp.WithRateLimiter(limiter),
		dhcp.WithOptionLogging(cfg.Server.LogOptions),
	}
	if cfg.Server.MACVendorDB != "" {
		db, err := macvendor.LoadFile(cfg.Server.MACVendorDB)
		if err != nil {
			return err
		}
		logger.Info("mac vendor database loaded", "entries", db.Count())
		monitorOpts = append(monitorOpts, dhcp.WithVendorLookup(db))
	}
	processor := dhcp.InstrumentProcessor(dhcp.NewMonitor(logger, monitorOpts...))

	factory := dhcp.NewChannelFactory(sock, cfg.Server.BufferSize)
	for i := range cfg.Server.Channels {
		ch, err := factory.NewChannel()
		if err != nil {
			return err
		}
		name := strconv.Itoa(i)
		loop := dhcp.NewLoop(dhcp.Instrument(ch, name, logger), processor, logger.With("channel", name))
		g.Go(func() error {
			metrics.ChannelsActive.Inc()
			defer metrics.ChannelsActive.Dec()
			return loop.Run(ctx)
		})
	}

	return g.Wait()
}

func metricsMux() *nethttp.ServeMux {
	mux := nethttp.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return mux
}
