package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/auth"
	authpostgres "github.com/frahmantamala/travel-booking/internal/auth/postgres"
	"github.com/frahmantamala/travel-booking/internal/booking"
	bookingpostgres "github.com/frahmantamala/travel-booking/internal/booking/postgres"
	"github.com/frahmantamala/travel-booking/internal/core/events"
	"github.com/frahmantamala/travel-booking/internal/listing"
	listingpostgres "github.com/frahmantamala/travel-booking/internal/listing/postgres"
	"github.com/frahmantamala/travel-booking/internal/notification"
	"github.com/frahmantamala/travel-booking/internal/payment"
	paymentpostgres "github.com/frahmantamala/travel-booking/internal/payment/postgres"
	"github.com/frahmantamala/travel-booking/internal/paymentgateway"
	"github.com/frahmantamala/travel-booking/internal/review"
	reviewpostgres "github.com/frahmantamala/travel-booking/internal/review/postgres"
	"github.com/frahmantamala/travel-booking/internal/transport/rest"
	"github.com/frahmantamala/travel-booking/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	GormDB     *gorm.DB
	Router     *chi.Mux
	Logger     *slog.Logger
	Dispatcher *notification.Dispatcher

	AuthHandler    *auth.Handler
	ListingHandler *listing.Handler
	BookingHandler *booking.Handler
	ReviewHandler  *review.Handler
	PaymentHandler *payment.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		deps.Dispatcher.Shutdown()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.AuthHandler,
		deps.ListingHandler,
		deps.BookingHandler,
		deps.ReviewHandler,
		deps.PaymentHandler,
		deps.Logger,
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		Conn: db.DB,
	}), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over pgx connection: %w", err)
	}

	eventBus := events.NewEventBus(log)

	mailer := notification.NewSMTPMailer(notification.SMTPConfig{
		Host:        config.Notification.SMTPHost,
		Port:        config.Notification.SMTPPort,
		Username:    config.Notification.SMTPUsername,
		Password:    config.Notification.SMTPPassword,
		FromAddress: config.Notification.FromAddress,
	})
	dispatcher := notification.NewDispatcher(notification.Config{
		MaxWorkers:   config.Notification.MaxWorkers,
		JobQueueSize: config.Notification.QueueSize,
	}, mailer, log)
	notification.NewEventHandler(dispatcher, config.Notification.OpsAddress, log).RegisterEventHandlers(eventBus)

	gatewayClient := paymentgateway.NewClient(paymentgateway.Config{
		BaseURL:   config.Chapa.BaseURL,
		SecretKey: config.Chapa.SecretKey,
		Timeout:   config.Chapa.Timeout,
	}, log)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authpostgres.NewUserRepository(gormDB), tokenGen)
	authHandler := auth.NewHandler(authService, log)

	listingService := listing.NewService(listingpostgres.NewListingRepository(gormDB), log)
	listingHandler := listing.NewHandler(listingService, log)

	bookingService := booking.NewService(bookingpostgres.NewBookingRepository(gormDB), listingService, eventBus, log)
	bookingHandler := booking.NewHandler(bookingService, log)

	reviewService := review.NewService(reviewpostgres.NewReviewRepository(gormDB), bookingService, log)
	reviewHandler := review.NewHandler(reviewService, log)

	paymentService := payment.NewService(
		paymentpostgres.NewPaymentRepository(gormDB),
		gatewayClient,
		eventBus,
		config.Server.BaseURL,
		log,
	)
	paymentHandler := payment.NewHandler(paymentService, log)

	return &Dependencies{
		Config:     config,
		Logger:     log,
		DB:         db,
		GormDB:     gormDB,
		Router:     chi.NewRouter(),
		Dispatcher: dispatcher,

		AuthHandler:    authHandler,
		ListingHandler: listingHandler,
		BookingHandler: bookingHandler,
		ReviewHandler:  reviewHandler,
		PaymentHandler: paymentHandler,
	}, nil
}

// initDB opens the pgx-backed connection pool shared by gorm and the
// health checker.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
