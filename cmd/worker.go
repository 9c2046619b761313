package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/ngo-donations/internal/donation"
	donationPostgres "github.com/frahmantamala/ngo-donations/internal/donation/postgres"
	"github.com/frahmantamala/ngo-donations/internal/scheduler"
	"github.com/frahmantamala/ngo-donations/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Run scheduled jobs: pending donations older than scheduler.pending_ttl are marked abandoned`,
	Run: func(cmd *cobra.Command, args []string) {
		startWorker()
	},
}

var (
	workerSchedule   string
	workerPendingTTL time.Duration
	workerOnce       bool
)

func startWorker() {
	config, err := loadValidConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	gormDB, err := initGorm(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize gorm: %v\n", err)
		os.Exit(1)
	}

	bus, publisher := initEvents(config.RabbitMQ, lg)
	defer publisher.Close()
	defer bus.Wait()

	// the worker never creates orders, so no gateway or limiter
	donationService := donation.NewService(
		donationPostgres.NewDonationRepository(gormDB),
		nil, nil, bus,
		donation.Config{Currency: config.Payment.Currency, MinAmount: config.Payment.MinAmount},
		lg,
	)

	sched := scheduler.New(donationService, scheduler.Config{
		Spec:       getStringFlag(workerSchedule, config.Scheduler.Cron),
		PendingTTL: getDurationFlag(workerPendingTTL, config.Scheduler.PendingTTL),
	}, lg)

	if workerOnce {
		sched.ExpirePending()
		return
	}

	if err := sched.Start(); err != nil {
		lg.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("worker is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	lg.Info("received signal, shutting down worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	select {
	case <-sched.Stop().Done():
		lg.Info("worker shutdown complete")
	case <-ctx.Done():
		lg.Warn("shutdown timeout reached, forcing exit")
	}
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func getDurationFlag(flagValue, configValue time.Duration) time.Duration {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	workerCmd.Flags().StringVar(&workerSchedule, "schedule", "", "Cron spec for the expiry job (overrides config)")
	workerCmd.Flags().DurationVar(&workerPendingTTL, "pending-ttl", 0, "Age after which pending donations are abandoned (overrides config)")
	workerCmd.Flags().BoolVar(&workerOnce, "once", false, "Run the expiry job once and exit")
}
