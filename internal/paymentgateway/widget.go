package paymentgateway

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/ngo-donations/internal/checkout"
)

var (
	ErrUnknownOrder    = errors.New("paymentgateway: no open widget for order")
	ErrMissingOrderID  = errors.New("paymentgateway: widget config has no order id")
	ErrOrderIDMismatch = errors.New("paymentgateway: confirmation is for a different order")
)

type widgetSession struct {
	cfg    checkout.WidgetConfig
	cb     checkout.Callbacks
	opened time.Time
}

// HostedWidget keeps the widgets opened for donors until the browser reports
// an outcome. Each opened widget reports at most one outcome.
type HostedWidget struct {
	mu      sync.Mutex
	pending map[string]*widgetSession
	logger  *slog.Logger
	now     func() time.Time
}

func NewHostedWidget(logger *slog.Logger) *HostedWidget {
	return &HostedWidget{
		pending: make(map[string]*widgetSession),
		logger:  logger,
		now:     time.Now,
	}
}

// Open registers the widget for cfg.OrderID. The browser fetches the config
// and drives the outcome endpoints.
func (w *HostedWidget) Open(_ context.Context, cfg checkout.WidgetConfig, cb checkout.Callbacks) error {
	if cfg.OrderID == "" {
		return ErrMissingOrderID
	}
	w.mu.Lock()
	w.pending[cfg.OrderID] = &widgetSession{cfg: cfg, cb: cb, opened: w.now()}
	w.mu.Unlock()

	w.logger.Info("payment widget opened", "order_id", cfg.OrderID, "amount", cfg.Amount, "currency", cfg.Currency)
	return nil
}

// Config returns the widget configuration of an open order.
func (w *HostedWidget) Config(orderID string) (checkout.WidgetConfig, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	sess, ok := w.pending[orderID]
	if !ok {
		return checkout.WidgetConfig{}, false
	}
	return sess.cfg, true
}

func (w *HostedWidget) take(orderID string) (*widgetSession, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	sess, ok := w.pending[orderID]
	if !ok {
		return nil, ErrUnknownOrder
	}
	delete(w.pending, orderID)
	return sess, nil
}

func (w *HostedWidget) Succeed(orderID string, conf checkout.PaymentConfirmation) error {
	if conf.OrderID != "" && conf.OrderID != orderID {
		return ErrOrderIDMismatch
	}
	sess, err := w.take(orderID)
	if err != nil {
		return err
	}
	conf.OrderID = orderID
	sess.cb.PaymentSucceeded(conf)
	return nil
}

func (w *HostedWidget) Fail(orderID string, failure checkout.GatewayFailure) error {
	sess, err := w.take(orderID)
	if err != nil {
		return err
	}
	sess.cb.PaymentFailed(failure)
	return nil
}

func (w *HostedWidget) Dismiss(orderID string) error {
	sess, err := w.take(orderID)
	if err != nil {
		return err
	}
	sess.cb.Dismissed()
	return nil
}

// Expire closes widgets opened more than maxAge ago without an outcome and
// reports them to their attempts as dismissed, so the donor can start over.
// The backend expires the pending donation on its own schedule.
func (w *HostedWidget) Expire(maxAge time.Duration) int {
	w.mu.Lock()
	cutoff := w.now().Add(-maxAge)
	var expired []*widgetSession
	for id, sess := range w.pending {
		if sess.opened.Before(cutoff) {
			delete(w.pending, id)
			expired = append(expired, sess)
		}
	}
	w.mu.Unlock()

	for _, sess := range expired {
		sess.cb.Dismissed()
	}
	if len(expired) > 0 {
		w.logger.Info("expired abandoned payment widgets", "count", len(expired))
	}
	return len(expired)
}

func (w *HostedWidget) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}
