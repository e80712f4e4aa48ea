package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Muostafa/Chat-app-system-sub001/internal/chat"
	"github.com/Muostafa/Chat-app-system-sub001/internal/config"
	"github.com/Muostafa/Chat-app-system-sub001/internal/counter"
	"github.com/Muostafa/Chat-app-system-sub001/internal/db"
	"github.com/Muostafa/Chat-app-system-sub001/internal/logs"
	"github.com/Muostafa/Chat-app-system-sub001/internal/seq"
	"github.com/Muostafa/Chat-app-system-sub001/internal/server"
)

var servePort int
var serveHost string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveHost, "bind", "", "address to bind to (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if err := logs.Init(cfg.Log.Level); err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}

	database, err := db.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	counters := counter.NewMemory()
	reconciler := seq.NewReconciler(counters, database, cfg.Sequence.ReconcileSample)
	monitor := seq.NewMonitor(counters, database, cfg.Sequence.ReconcileSample)

	alloc := seq.NewAllocator(counters, database,
		seq.WithMaxAttempts(cfg.Sequence.MaxAttempts),
		seq.WithExhaustionHook(func(scope string) {
			// Exhaustion means drift beyond the retry bound; correct the
			// scope out-of-band without holding up the failing request.
			go func() {
				if _, err := reconciler.Reconcile(context.Background(), scope); err != nil {
					logs.Logger.Errorf("reconciling exhausted scope %s: %v", scope, err)
				}
			}()
		}))

	if cfg.Sequence.ReconcileOnStart {
		results, err := reconciler.ReconcileAll(ctx)
		if err != nil {
			return fmt.Errorf("startup reconciliation: %w", err)
		}
		corrected := 0
		for _, res := range results {
			if res.Corrected {
				corrected++
			}
		}
		logs.Logger.Infof("startup reconciliation: %d scopes checked, %d corrected", len(results), corrected)
	}

	svc := chat.NewLocalService(database, alloc)
	srv := server.New(svc, monitor, reconciler, counters, cfg.Server.Host, cfg.Server.Port)

	return srv.Start(ctx)
}
