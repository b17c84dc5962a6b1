package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hostpulse/monitor/internal/config"
	"github.com/hostpulse/monitor/internal/control"
	"github.com/hostpulse/monitor/internal/exporter"
	models "github.com/hostpulse/monitor/internal/model"
	"github.com/hostpulse/monitor/internal/registry"
	"github.com/hostpulse/monitor/internal/sampler"
	"github.com/hostpulse/monitor/internal/scheduler"
	"github.com/hostpulse/monitor/internal/status"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	events := make(chan models.StatusEvent, 16)
	fileCh := make(chan models.StatusEvent, 16)
	subs := []chan<- models.StatusEvent{fileCh}
	go status.FileSubscriber(fileCh, cfg.StatusFile, sugar)
	if cfg.StatusURL != "" {
		urlCh := make(chan models.StatusEvent, 16)
		subs = append(subs, urlCh)
		go status.URLSubscriber(urlCh, cfg.StatusURL, sugar)
	}
	go status.Broadcaster(events, subs...)
	defer close(events)
	reporter := status.NewReporter(events, sugar)

	reporter.Report("starting monitoring from fifo")

	cat, err := sampler.DefaultCatalog(cfg.Probes)
	if err != nil {
		return fmt.Errorf("building metric catalog: %w", err)
	}

	fields, err := control.ReadSelection(cfg.FIFOPath)
	if err != nil {
		reporter.Report(fmt.Sprintf("selection channel error: %v", err))
		return err
	}

	if control.IsListRequest(fields) {
		if err := control.WriteCatalogList(cfg.MetricsFile, cat); err != nil {
			reporter.Report(fmt.Sprintf("metrics listing error: %v", err))
			return err
		}
		reporter.Report("available metrics listed")
		return nil
	}

	reg := registry.New(cat, sugar)
	if err := reg.Activate(fields); err != nil {
		reporter.Report(fmt.Sprintf("activation failed: %v", err))
		return err
	}
	defer reg.Teardown()

	exp := exporter.New(cfg.Address, reg, sugar)
	expErr := exp.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	sched := scheduler.New(reg, cfg.CollectInterval.Duration, sugar)
	wg.Add(1)
	go func() {
		defer wg.Done()
		sched.Run(ctx)
	}()

	reporter.Report("metrics monitoring started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case sig := <-sigChan:
			sugar.Infow("shutting down", "signal", sig)
			cancel()
			wg.Wait()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := exp.Shutdown(shutdownCtx); err != nil {
				sugar.Errorw("exposition shutdown failed", "error", err)
			}
			reporter.Report("monitoring stopped")
			return nil

		case err, ok := <-expErr:
			if !ok {
				// Clean server shutdown; nothing to report.
				expErr = nil
				continue
			}
			reporter.Report(fmt.Sprintf("exposition endpoint failed: %v", err))
			if cfg.ExpositionRequired {
				cancel()
				wg.Wait()
				return err
			}
			sugar.Errorw("continuing collection without exposition", "error", err)
			expErr = nil
		}
	}
}
