package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/travel-booking/internal/core/events"
	"github.com/frahmantamala/travel-booking/internal/notification"
	"github.com/frahmantamala/travel-booking/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools for background services",
	Long:  `Start and manage worker pools, currently the notification email pool.`,
}

var notificationWorkerCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Start the notification worker pool",
	Long:  `Start the email notification worker pool and subscribe it to booking and payment events.`,
	Run: func(cmd *cobra.Command, args []string) {
		startNotificationWorker()
	},
}

var (
	maxWorkers   int
	jobQueueSize int
)

func startNotificationWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	mailer := notification.NewSMTPMailer(notification.SMTPConfig{
		Host:        config.Notification.SMTPHost,
		Port:        config.Notification.SMTPPort,
		Username:    config.Notification.SMTPUsername,
		Password:    config.Notification.SMTPPassword,
		FromAddress: config.Notification.FromAddress,
	})

	dispatcher := notification.NewDispatcher(notification.Config{
		MaxWorkers:   getIntFlag(maxWorkers, config.Notification.MaxWorkers),
		JobQueueSize: getIntFlag(jobQueueSize, config.Notification.QueueSize),
	}, mailer, log)

	eventBus := events.NewEventBus(log)
	notification.NewEventHandler(dispatcher, config.Notification.OpsAddress, log).RegisterEventHandlers(eventBus)

	log.Info("notification worker started",
		"max_workers", getIntFlag(maxWorkers, config.Notification.MaxWorkers),
		"job_queue_size", getIntFlag(jobQueueSize, config.Notification.QueueSize),
		"smtp_host", config.Notification.SMTPHost)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info("notification worker is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	log.Info("received signal, shutting down notification worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		dispatcher.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		log.Info("notification worker pool shutdown complete")
	case <-ctx.Done():
		log.Warn("shutdown timeout reached, forcing exit")
	}
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	notificationWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	notificationWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")

	workerCmd.AddCommand(notificationWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
