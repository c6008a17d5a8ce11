package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/viant/kuriosity"
	"github.com/viant/kuriosity/internal/ksptime"
	"github.com/viant/kuriosity/runtime/part"
	"github.com/viant/kuriosity/sim"
	"go.uber.org/zap"
)

type runOptions struct {
	config      string
	catalog     string
	scenario    string
	duration    float64
	step        float64
	seed        uint64
	metricsAddr string
	load        string
	save        string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	ret := &cobra.Command{
		Use:   "run",
		Short: "Advance a scenario and report experiment progress",
		Long: `Load a YAML scenario, register every part carrying a kuriosity
configuration and advance the universe in fixed steps.

Durations are expressed in seconds of universe time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runScenario(ctx, cmd.OutOrStdout(), opts)
		},
	}
	flags := ret.Flags()
	flags.StringVar(&opts.config, "config", "", "config URL (yaml or json)")
	flags.StringVar(&opts.catalog, "catalog", "", "experiment catalog URL, overrides catalog.url")
	flags.StringVar(&opts.scenario, "scenario", "", "scenario URL")
	flags.Float64Var(&opts.duration, "duration", 21600, "universe time to simulate")
	flags.Float64Var(&opts.step, "step", 60, "universe time per update")
	flags.Uint64Var(&opts.seed, "seed", 0, "random seed, overrides seed")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")
	flags.StringVar(&opts.load, "load", "", "snapshot ID restored before the first update")
	flags.StringVar(&opts.save, "save", "", "snapshot ID saved after the last update")
	_ = ret.MarkFlagRequired("scenario")
	return ret
}

func runScenario(ctx context.Context, out io.Writer, opts *runOptions) error {
	if opts.step <= 0 {
		return fmt.Errorf("step must be > 0, got %v", opts.step)
	}
	cfg, err := kuriosity.LoadConfig(ctx, opts.config)
	if err != nil {
		return err
	}
	if opts.catalog != "" {
		cfg.Catalog.URL = opts.catalog
	}
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}
	scenario, err := sim.LoadScenario(ctx, nil, opts.scenario)
	if err != nil {
		return err
	}
	universe := sim.New(scenario, nil)
	options := []kuriosity.Option{
		kuriosity.WithConfig(cfg),
		kuriosity.WithUniverse(universe),
		kuriosity.WithArchive(universe.Archive()),
	}
	if opts.metricsAddr != "" {
		options = append(options, kuriosity.WithMetricsRegisterer(prometheus.NewRegistry()))
	}
	srv, err := kuriosity.New(ctx, options...)
	if err != nil {
		return err
	}
	defer srv.Close(context.Background())

	if opts.metricsAddr != "" {
		server := serveMetrics(opts.metricsAddr, srv)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	rt := srv.Runtime()
	configs := universe.PartConfigs()
	for _, partID := range universe.PartIDs() {
		if _, err = rt.AddPart(ctx, newPartData(partID, configs[partID])); err != nil {
			return err
		}
	}
	if opts.load != "" {
		if _, err = rt.Load(ctx, opts.load); err != nil {
			return err
		}
	}

	for elapsed := 0.0; elapsed < opts.duration; elapsed += opts.step {
		events, err := universe.Advance(opts.step)
		if err != nil {
			return err
		}
		for _, event := range events {
			if err = rt.Publish(ctx, event); err != nil {
				return err
			}
		}
		if err = rt.Update(ctx, opts.step); err != nil {
			if errors.Is(err, context.Canceled) {
				srv.Logger().Info("run interrupted", zap.Float64("elapsed", elapsed))
				break
			}
			return err
		}
	}

	if opts.save != "" {
		if _, err = rt.Save(ctx, opts.save); err != nil {
			return err
		}
	}
	return writeSummary(out, universe, rt)
}

func newPartData(partID string, config *sim.PartConfig) *part.Data {
	ret := part.NewData(partID)
	if config == nil {
		return ret
	}
	if config.FactorAdjustment > 0 {
		ret.FactorAdjustment = config.FactorAdjustment
	}
	ret.AllowedExperiments = append(ret.AllowedExperiments, config.AllowedExperiments...)
	ret.PriorityExperiments = append(ret.PriorityExperiments, config.PriorityExperiments...)
	return ret
}

func serveMetrics(addr string, srv *kuriosity.Service) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(srv.Gatherer(), promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.Logger().Error("metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
	return server
}

func writeSummary(out io.Writer, universe *sim.Universe, rt *kuriosity.Runtime) error {
	counters := rt.Progress()
	if _, err := fmt.Fprintf(out, "universe time: %s\n", ksptime.Format(universe.UniverseTime())); err != nil {
		return err
	}
	fmt.Fprintf(out, "tracked: %d started: %d paused: %d completed: %d deprioritized: %d failed: %d\n",
		counters.Tracked, counters.Started, counters.Paused, counters.Completed, counters.Deprioritized, counters.Failed)
	for _, coordinator := range rt.Coordinators() {
		fmt.Fprintf(out, "part %s factor x%.2f crew %d", coordinator.ID(), coordinator.Factor(), len(coordinator.Residents()))
		if description := coordinator.Description(); description != "" {
			fmt.Fprintf(out, " (%s)", description)
		}
		fmt.Fprintln(out)
	}
	reports := universe.Archive().IDs()
	fmt.Fprintf(out, "reports: %d\n", len(reports))
	for _, id := range reports {
		fmt.Fprintf(out, "  %s\n", id)
	}
	return nil
}
