package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/probenet/probenet-go/pkg/config"
	"github.com/probenet/probenet-go/pkg/discovery"
	"github.com/probenet/probenet-go/pkg/interaction"
	"github.com/probenet/probenet-go/pkg/log"
	"github.com/probenet/probenet-go/pkg/metrics"
	"github.com/probenet/probenet-go/pkg/transport"
)

const shutdownTimeout = 5 * time.Second

// sensorServer is one configured sensor, bound and ready to serve.
type sensorServer struct {
	name     string
	endpoint *transport.Endpoint
	server   server
}

// run serves every configured sensor until ctx is cancelled or a responder
// fails.
func run(ctx context.Context, cfg *config.Config, simulate bool, logger *slog.Logger) (err error) {
	var sinks []log.Logger
	if cfg.ProtocolLog != "" {
		fl, ferr := log.NewFileLogger(cfg.ProtocolLog)
		if ferr != nil {
			return fmt.Errorf("open protocol log: %w", ferr)
		}
		defer func() { err = multierr.Append(err, fl.Close()) }()
		sinks = append(sinks, fl)
		logger.Info("protocol capture enabled", "path", cfg.ProtocolLog)
	}
	// At debug level the capture stream is mirrored to the operational log.
	if logger.Enabled(ctx, slog.LevelDebug) {
		sinks = append(sinks, log.NewSlogAdapter(logger.With("component", "capture")))
	}
	var capture log.Logger = log.NoopLogger{}
	if len(sinks) > 0 {
		capture = log.NewMultiLogger(sinks...)
	}

	if cfg.MetricsAddr != "" {
		metrics.Register(nil)
	}

	sendTimeout, err := cfg.SendTimeoutDuration()
	if err != nil {
		return err
	}

	buses := newBusSet(logger)
	defer func() { err = multierr.Append(err, buses.Close()) }()

	var sensors []sensorServer
	closeAll := func() error {
		var errs error
		for _, s := range sensors {
			errs = multierr.Append(errs, s.endpoint.Close())
		}
		return errs
	}

	for _, s := range cfg.Sensors {
		tagged := log.WithSensor(capture, s.Name)
		ep, err := transport.Bind(ctx, s.Bind, transport.Config{
			Logger:      tagged,
			SendTimeout: sendTimeout,
		})
		if err != nil {
			return multierr.Append(fmt.Errorf("sensor %s: %w", s.Name, err), closeAll())
		}
		sensors = append(sensors, sensorServer{name: s.Name, endpoint: ep})

		o := interaction.Options{
			Sensor:         s.Name,
			ProtocolLogger: tagged,
			Logger:         logger.With("sensor", s.Name),
		}
		if cfg.MetricsAddr != "" {
			o.Observer = metrics.NewObserver(s.Family, s.Name)
		}
		srv, err := newServer(s, ep, buses, o)
		if err != nil {
			return multierr.Append(fmt.Errorf("sensor %s: %w", s.Name, err), closeAll())
		}
		sensors[len(sensors)-1].server = srv
		logger.Info("sensor bound", "sensor", s.Name, "family", s.Family, "url", ep.URL().String(), "bus", s.Bus)
	}

	if cfg.Advertise {
		advertiser := discovery.NewMDNSAdvertiser(discovery.DefaultAdvertiserConfig())
		defer advertiser.StopAll()
		advertise(ctx, advertiser, cfg.Sensors, sensors, logger)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range sensors {
		g.Go(func() error {
			if err := s.server.Serve(gctx); err != nil {
				return fmt.Errorf("sensor %s: %w", s.name, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return closeAll()
	})

	if cfg.MetricsAddr != "" {
		httpSrv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metricsMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("serving metrics", "addr", cfg.MetricsAddr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpSrv.Shutdown(sctx)
		})
	}

	if simulate {
		g.Go(func() error {
			runSimulation(gctx, buses.sim, logger)
			return nil
		})
	}

	return g.Wait()
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(nil))
	return mux
}

// advertise announces the tcp:// sensors. Failures are logged, not fatal:
// a responder stays reachable by URL without mDNS.
func advertise(ctx context.Context, a discovery.Advertiser, cfgs []config.Sensor, sensors []sensorServer, logger *slog.Logger) {
	for i, s := range sensors {
		info, err := discovery.InfoFromURL(s.name, cfgs[i].Family, s.endpoint.URL())
		if err != nil {
			logger.Debug("not advertising", "sensor", s.name, "reason", err)
			continue
		}
		if err := a.Advertise(ctx, info); err != nil {
			logger.Warn("mDNS advertisement failed", "sensor", s.name, "error", err)
			continue
		}
		logger.Info("advertising", "sensor", s.name, "port", info.Port)
	}
}
