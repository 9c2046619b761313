package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/apiclient"
	"github.com/frahmantamala/ngo-donations/internal/checkout"
	"github.com/frahmantamala/ngo-donations/internal/paymentgateway"
	"github.com/frahmantamala/ngo-donations/internal/transport"
	"github.com/frahmantamala/ngo-donations/internal/transport/middleware"
	"github.com/frahmantamala/ngo-donations/pkg/logger"
)

var (
	checkoutSessionIdle time.Duration
	checkoutWidgetTTL   time.Duration
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Start the donation checkout server",
	Long:  `Serve the donation form flow and the hosted payment widget, backed by the REST API at checkout.backend_url`,
	Run: func(cmd *cobra.Command, args []string) {
		startCheckoutServer()
	},
}

func init() {
	checkoutCmd.Flags().DurationVar(&checkoutSessionIdle, "session-idle", 30*time.Minute, "drop donor sessions idle for longer than this")
	checkoutCmd.Flags().DurationVar(&checkoutWidgetTTL, "widget-ttl", time.Hour, "forget payment widgets left open for longer than this")
}

// logNotifier records every terminal notification in the process log.
type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Notify(note checkout.Notification) {
	n.logger.Info("donation attempt finished",
		"attempt_id", note.AttemptID,
		"state", note.State,
		"kind", note.Kind,
		"level", note.Level)
}

func startCheckoutServer() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Checkout.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid checkout config: %v\n", err)
		os.Exit(1)
	}
	lg := logger.L()

	widget := paymentgateway.NewHostedWidget(lg)
	sessions := checkout.NewSessions(newFlowFactory(cfg, widget, lg),
		checkout.WithInFlightLimit(checkoutWidgetTTL+checkoutSessionIdle))

	router := chi.NewRouter()
	router.Use(middleware.CORS(cfg.Server.Origins()))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(lg))
	router.Use(middleware.LoggingMiddleware(lg))

	base := transport.NewBaseHandler(lg)
	checkout.NewHandler(base, sessions).RegisterRoutes(router)
	paymentgateway.NewWidgetHandler(base, widget).RegisterRoutes(router)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go sweepCheckout(ctx, sessions, widget, lg)

	addr := fmt.Sprintf(":%d", cfg.Checkout.Port)
	lg.Info("starting checkout server", "address", addr, "backend_url", cfg.Checkout.BackendURL)

	serve(&http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Checkout.OrderTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}, lg)
	lg.Info("checkout server stopped")
}

func newFlowFactory(cfg *internal.Config, widget *paymentgateway.HostedWidget, lg *slog.Logger) checkout.FlowFactory {
	backend := apiclient.New(cfg.Checkout.BackendURL,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.Checkout.OrderTimeout + 5*time.Second}),
		apiclient.WithLogger(lg),
	)
	flowCfg := checkout.Config{
		MinAmount:       cfg.Payment.MinAmount,
		DefaultCurrency: cfg.Payment.Currency,
		OrderTimeout:    cfg.Checkout.OrderTimeout,
		BrandName:       cfg.Checkout.BrandName,
		Description:     cfg.Checkout.Description,
		ThemeColor:      cfg.Checkout.ThemeColor,
	}
	opts := []checkout.Option{checkout.WithLogger(lg)}
	if cfg.Checkout.VerifyPayments {
		opts = append(opts, checkout.WithVerifier(backend))
	}

	return func(notices checkout.Notifier) *checkout.Flow {
		notifier := checkout.Fanout{notices, logNotifier{logger: lg}}
		return checkout.NewFlow(flowCfg, backend, widget, notifier, opts...)
	}
}

func sweepCheckout(ctx context.Context, sessions *checkout.Sessions, widget *paymentgateway.HostedWidget, lg *slog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired := widget.Expire(checkoutWidgetTTL)
			dropped := sessions.Sweep(checkoutSessionIdle)
			if expired > 0 || dropped > 0 {
				lg.Debug("checkout sweep", "widgets_expired", expired, "sessions_dropped", dropped)
			}
		}
	}
}
