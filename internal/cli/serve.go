package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aurum-network/aurum/internal/api"
	"github.com/aurum-network/aurum/internal/app/governance"
	"github.com/aurum-network/aurum/internal/app/scheduler"
	"github.com/aurum-network/aurum/internal/app/staking"
	"github.com/aurum-network/aurum/internal/app/token"
	"github.com/aurum-network/aurum/internal/app/wallet"
	"github.com/aurum-network/aurum/internal/daemon"
	"github.com/aurum-network/aurum/internal/domain"
	"github.com/aurum-network/aurum/internal/infra/observability"
	"github.com/aurum-network/aurum/internal/infra/statestore"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ledger daemon",
	Long: `Start the ledger daemon: open the state store, seed the ledger-resident
config records on first run, and serve the HTTP API. When a sweep interval
is configured, due scheduled and recurring transfers are settled in the
background.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.LoadConfig(configPath)
	if err != nil {
		return err
	}

	clock := domain.RealClock{}
	sink := observability.LogSink{}

	var store statestore.Store
	switch cfg.Store.Driver {
	case "memory":
		store = statestore.NewMemoryStore(clock, sink)
	case "sqlite", "":
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		store, err = statestore.OpenSQLite(cfg.Store.Path, clock, sink)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := daemon.Seed(ctx, store, cfg); err != nil {
		return fmt.Errorf("seed config: %w", err)
	}
	log.Printf("[daemon] store %s ready", cfg.Store.Driver)

	auth := domain.NewStaticAuthorizer(cfg.Admins...)
	tokens := token.NewLedger(store, auth)
	stakes := staking.NewEngine(store, clock)
	gov := governance.NewEngine(store, clock, governance.DefaultRegistry())
	wallets := wallet.NewManager(store, clock, auth)
	sched := scheduler.NewEngine(store, clock)

	if every, err := cfg.Scheduler.SweepEvery(); err != nil {
		return fmt.Errorf("sweep_interval: %w", err)
	} else if every > 0 {
		go runSweepLoop(ctx, sched, every)
	}

	server := api.NewServer(tokens, stakes, gov, wallets, sched)
	server.EnableMetrics()

	httpSrv := &http.Server{
		Addr:              cfg.API.Addr(),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	log.Printf("[daemon] listening on %s", cfg.API.Addr())
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// runSweepLoop settles due scheduled and recurring transfers on a ticker.
// The loop holds no state: each pass re-reads the ledger, so a missed or
// doubled tick is harmless.
func runSweepLoop(ctx context.Context, sched *scheduler.Engine, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := sched.Sweep(ctx)
			observability.Observe("sweep", err)
			if err != nil {
				log.Printf("[sweep] error: %v", err)
				continue
			}
			observability.SweepRuns.Inc()
			observability.SweepSettled.WithLabelValues("scheduled", "executed").Add(float64(res.ScheduledExecuted))
			observability.SweepSettled.WithLabelValues("scheduled", "failed").Add(float64(res.ScheduledFailed))
			observability.SweepSettled.WithLabelValues("recurring", "executed").Add(float64(res.RecurringExecuted))
			if res.ScheduledExecuted+res.ScheduledFailed+res.RecurringExecuted > 0 {
				log.Printf("[sweep] executed=%d failed=%d recurring=%d", res.ScheduledExecuted, res.ScheduledFailed, res.RecurringExecuted)
			}
		}
	}
}
