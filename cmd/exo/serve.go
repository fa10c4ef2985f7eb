package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jurredr/exo-client-portal-sub000/internal/access"
	"github.com/Jurredr/exo-client-portal-sub000/internal/activity"
	"github.com/Jurredr/exo-client-portal-sub000/internal/api"
	"github.com/Jurredr/exo-client-portal-sub000/internal/billing"
	"github.com/Jurredr/exo-client-portal-sub000/internal/config"
	"github.com/Jurredr/exo-client-portal-sub000/internal/hours"
	"github.com/Jurredr/exo-client-portal-sub000/internal/invoice"
	"github.com/Jurredr/exo-client-portal-sub000/internal/metrics"
	"github.com/Jurredr/exo-client-portal-sub000/internal/organization"
	"github.com/Jurredr/exo-client-portal-sub000/internal/project"
	"github.com/Jurredr/exo-client-portal-sub000/internal/ratelimit"
	"github.com/Jurredr/exo-client-portal-sub000/internal/user"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Exo portal server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	slog.Info("connected to database")

	m := metrics.New()
	m.RegisterDBPoolCollector(func() (total, idle, acquired int32) {
		st := pool.Stat()
		return st.TotalConns(), st.IdleConns(), st.AcquiredConns()
	})

	orgStore := organization.NewStore(pool)
	userStore := user.NewStore(pool)
	projectStore := project.NewStore(pool)
	invoiceStore := invoice.NewStore(pool)
	hoursStore := hours.NewStore(pool)
	activityStore := activity.NewStore(pool)

	collector := activity.NewCollector(activityStore, cfg.Activity.BatchSize, cfg.Activity.FlushInterval)
	go collector.Start(ctx)

	guard := access.NewGuard(cfg.Auth.AdminDomain, projectStore, userStore)
	engine := billing.NewEngine(invoiceStore, cfg.Billing.DueDays, logger,
		billing.WithMetricHooks(
			m.AutoInvoicesCreatedTotal.Inc,
			m.AutoInvoicesSkippedTotal.Inc,
			m.AutoInvoicesFailedTotal.Inc,
		))

	limiter := ratelimit.New(cfg.RateLimit.Default, cfg.RateLimit.Window)

	router := api.NewRouter(api.RouterDeps{
		OrgStore:      orgStore,
		UserStore:     userStore,
		ProjectStore:  projectStore,
		InvoiceStore:  invoiceStore,
		HoursStore:    hoursStore,
		ActivityStore: activityStore,
		Collector:     collector,
		Guard:         guard,
		Engine:        engine,
		Sessions:      user.NewAuthAdapter(userStore),
		Limiter:       limiter,
		Metrics:       m,
		CORSOrigins:   cfg.CORS.AllowedOrigins,
		DueDays:       cfg.Billing.DueDays,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	collector.Stop()

	return srv.Shutdown(shutdownCtx)
}
