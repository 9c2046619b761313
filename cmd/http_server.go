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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/auth"
	authPostgres "github.com/frahmantamala/ngo-donations/internal/auth/postgres"
	"github.com/frahmantamala/ngo-donations/internal/core/events"
	"github.com/frahmantamala/ngo-donations/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/ngo-donations/internal/dashboard/postgres"
	"github.com/frahmantamala/ngo-donations/internal/donation"
	donationPostgres "github.com/frahmantamala/ngo-donations/internal/donation/postgres"
	"github.com/frahmantamala/ngo-donations/internal/inquiry"
	inquiryPostgres "github.com/frahmantamala/ngo-donations/internal/inquiry/postgres"
	"github.com/frahmantamala/ngo-donations/internal/newsletter"
	newsletterPostgres "github.com/frahmantamala/ngo-donations/internal/newsletter/postgres"
	"github.com/frahmantamala/ngo-donations/internal/paymentgateway"
	"github.com/frahmantamala/ngo-donations/internal/ratelimit"
	"github.com/frahmantamala/ngo-donations/internal/relay"
	"github.com/frahmantamala/ngo-donations/internal/transport"
	"github.com/frahmantamala/ngo-donations/internal/transport/rest"
	"github.com/frahmantamala/ngo-donations/internal/user"
	userPostgres "github.com/frahmantamala/ngo-donations/internal/user/postgres"
	"github.com/frahmantamala/ngo-donations/internal/volunteer"
	volunteerPostgres "github.com/frahmantamala/ngo-donations/internal/volunteer/postgres"
	"github.com/frahmantamala/ngo-donations/pkg/logger"
)

var openAPIPath string

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the backend REST API serving the public site and the admin dashboard`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func init() {
	httpServerCmd.Flags().StringVar(&openAPIPath, "openapi", "./api/openapi.yml", "path of the OpenAPI document")
}

type Dependencies struct {
	Config    *internal.Config
	DB        *sqlx.DB
	Gorm      *gorm.DB
	Redis     *redis.Client
	Events    *events.EventBus
	Publisher relay.Publisher
	Router    *chi.Mux
	Logger    *slog.Logger
}

func (d *Dependencies) Close() {
	d.Events.Wait()
	if d.Publisher != nil {
		d.Publisher.Close()
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr, "payments_configured", deps.Config.Payment.Configured())

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	serve(server, deps.Logger)
	deps.Close()
	deps.Logger.Info("server stopped")
}

// serve runs server until SIGINT/SIGTERM and then shuts it down gracefully.
func serve(server *http.Server, lg *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			lg.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config
	lg := deps.Logger
	base := transport.NewBaseHandler(lg)

	var gateway donation.Gateway
	if cfg.Payment.Configured() {
		rzp, err := paymentgateway.NewRazorpay(cfg.Payment.RazorpayKeyID, cfg.Payment.RazorpayKeySecret, lg)
		if err != nil {
			lg.Warn("payment gateway unavailable", "error", err)
		} else {
			gateway = rzp
		}
	} else {
		lg.Warn("razorpay credentials missing, order creation will answer 503")
	}

	donationService := donation.NewService(
		donationPostgres.NewDonationRepository(deps.Gorm),
		gateway,
		newRateLimiter(cfg.Redis, deps.Redis),
		deps.Events,
		donation.Config{
			Currency:     cfg.Payment.Currency,
			MinAmount:    cfg.Payment.MinAmount,
			OrderTimeout: cfg.Payment.OrderTimeout,
		},
		lg,
	)

	authService := auth.NewService(
		authPostgres.NewRepository(deps.Gorm),
		auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration),
		lg,
	)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), cfg.Security.BCryptCost)
	inquiryService := inquiry.NewService(inquiryPostgres.NewInquiryRepository(deps.Gorm), lg)
	volunteerService := volunteer.NewService(volunteerPostgres.NewVolunteerRepository(deps.Gorm), lg)
	newsletterService := newsletter.NewService(newsletterPostgres.NewNewsletterRepository(deps.Gorm), lg)
	dashboardService := dashboard.NewService(dashboardPostgres.NewDashboardRepository(deps.DB), lg)

	var webhook *donation.WebhookHandler
	if cfg.Payment.WebhookSecret != "" {
		webhook = donation.NewWebhookHandler(base, donationService, cfg.Payment.WebhookSecret)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB, rest.Handlers{
		Auth:       auth.NewHandler(base, authService),
		User:       user.NewHandler(base, userService),
		Donation:   donation.NewHandler(base, donationService),
		Webhook:    webhook,
		Inquiry:    inquiry.NewHandler(base, inquiryService),
		Volunteer:  volunteer.NewHandler(base, volunteerService),
		Newsletter: newsletter.NewHandler(base, newsletterService),
		Dashboard:  dashboard.NewHandler(base, dashboardService),
	}, rest.Options{
		AllowedOrigins: cfg.Server.Origins(),
		OpenAPIPath:    openAPIPath,
	}, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadValidConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	bus, publisher := initEvents(config.RabbitMQ, lg)

	return &Dependencies{
		Config:    config,
		Logger:    lg,
		DB:        db,
		Gorm:      gormDB,
		Redis:     initRedis(config.Redis, lg),
		Events:    bus,
		Publisher: publisher,
		Router:    chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
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

// initGorm shares the sqlx connection pool with gorm.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

// initRedis returns nil when no address is configured or the server does not
// answer.
func initRedis(cfg internal.RedisConfig, lg *slog.Logger) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lg.Warn("redis unavailable, rate limiting disabled", "addr", cfg.Addr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

func newRateLimiter(cfg internal.RedisConfig, client *redis.Client) donation.RateLimiter {
	if client == nil {
		return nil
	}
	return ratelimit.NewRedisLimiter(client, cfg.KeyPrefix, cfg.RateLimit, cfg.RateLimitWindow)
}

// initEvents builds the in-process bus and relays every event to the broker.
func initEvents(cfg internal.RabbitMQConfig, lg *slog.Logger) (*events.EventBus, relay.Publisher) {
	bus := events.NewEventBus(lg)
	publisher := relay.Connect(cfg.URL, lg)
	relay.New(publisher, cfg.Exchange).Attach(bus)
	return bus, publisher
}
