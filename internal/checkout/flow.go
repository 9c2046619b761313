package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/core/common/validation"
	"github.com/frahmantamala/ngo-donations/pkg/logger"
)

const (
	MessagePaymentSucceeded    = "Thank you for your generosity! Your donation was received."
	MessagePaymentCancelled    = "Payment cancelled."
	MessageRequiredFields      = "Please fill in all required fields"
	MessageInvalidEmail        = "Please enter a valid email address"
	MessageOrderCreationFailed = "Failed to process donation. Please try again."
	MessageInvalidOrder        = "Payment setup failed. Please try again later."
	MessagePaymentFailed       = "Payment failed. Please try again."
	MessageVerificationFailed  = "We could not confirm your payment. If money was debited, please contact us."
)

type Config struct {
	MinAmount       int64
	DefaultCurrency string
	// OrderTimeout bounds the backend order-creation call. Zero means no bound.
	OrderTimeout time.Duration
	// VerifyTimeout bounds the payment verification call.
	VerifyTimeout time.Duration
	BrandName     string
	Description   string
	ThemeColor    string
}

func (c *Config) applyDefaults() {
	if c.MinAmount <= 0 {
		c.MinAmount = internal.DefaultMinAmount
	}
	if c.DefaultCurrency == "" {
		c.DefaultCurrency = internal.DefaultCurrency
	}
	if c.VerifyTimeout <= 0 {
		c.VerifyTimeout = 30 * time.Second
	}
	if c.Description == "" {
		c.Description = "Donation"
	}
}

type Option func(*Flow)

// WithVerifier makes the flow confirm each widget success with the backend
// before declaring the attempt succeeded.
func WithVerifier(v PaymentVerifier) Option {
	return func(f *Flow) { f.verifier = v }
}

func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) { f.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

// Flow is one donor's checkout. It holds at most one live attempt.
type Flow struct {
	cfg       Config
	orders    OrderCreator
	collector PaymentCollector
	verifier  PaymentVerifier
	notifier  Notifier
	logger    *slog.Logger
	now       func() time.Time

	mu        sync.Mutex
	attempt   Attempt
	form      DonationRequest
	resolving bool
}

func NewFlow(cfg Config, orders OrderCreator, collector PaymentCollector, notifier Notifier, opts ...Option) *Flow {
	cfg.applyDefaults()
	f := &Flow{
		cfg:       cfg,
		orders:    orders,
		collector: collector,
		notifier:  notifier,
		logger:    logger.LoggerWrapper(),
		now:       time.Now,
		attempt:   Attempt{State: StateIdle},
		form:      DefaultForm(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Current returns a snapshot of the live attempt.
func (f *Flow) Current() Attempt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempt
}

// Form returns the values the donor form should display.
func (f *Flow) Form() DonationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// Submit starts a new attempt. While another attempt is submitting or
// awaiting payment it returns that attempt and ErrAttemptInProgress.
func (f *Flow) Submit(ctx context.Context, req DonationRequest) (Attempt, error) {
	f.mu.Lock()
	if f.attempt.State.InFlight() {
		current := f.attempt
		f.mu.Unlock()
		f.logger.Warn("donation submit rejected", "attempt_id", current.ID, "state", current.State)
		return current, ErrAttemptInProgress
	}

	req = req.normalized()
	f.form = req
	attempt := Attempt{
		ID:        uuid.NewString(),
		State:     StateSubmitting,
		Request:   req,
		StartedAt: f.now(),
	}

	if ferr := f.validate(req); ferr != nil {
		attempt.State = StateFailed
		attempt.Err = ferr
		finished := f.now()
		attempt.FinishedAt = &finished
		f.attempt = attempt
		f.mu.Unlock()
		f.logger.Info("donation rejected by validation", "attempt_id", attempt.ID, "error", ferr.Message)
		f.notifyFailure(attempt.ID, ferr)
		return attempt, ferr
	}
	f.attempt = attempt
	f.mu.Unlock()

	f.logger.Info("creating donation order", "attempt_id", attempt.ID, "amount", req.Amount, "type", req.DonationType)

	order, ferr := f.createOrder(ctx, req)
	if ferr != nil {
		return f.fail(attempt.ID, StateSubmitting, ferr)
	}

	f.mu.Lock()
	if f.attempt.ID != attempt.ID || f.attempt.State != StateSubmitting {
		current := f.attempt
		f.mu.Unlock()
		return current, nil
	}
	f.attempt.State = StateAwaitingPayment
	f.attempt.Order = order
	f.mu.Unlock()

	f.logger.Info("donation order created", "attempt_id", attempt.ID, "order_id", order.OrderID)

	cb := &attemptCallbacks{flow: f, attemptID: attempt.ID}
	if err := f.collector.Open(ctx, f.widgetConfig(req, order), cb); err != nil {
		return f.fail(attempt.ID, StateAwaitingPayment, &FlowError{
			Kind:    KindPaymentGateway,
			Message: MessagePaymentFailed,
			Cause:   err,
		})
	}

	// The collector may already have reported an outcome.
	current := f.Current()
	if current.Err != nil {
		return current, current.Err
	}
	return current, nil
}

// Reset returns a finished attempt to Idle. The form keeps its values.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attempt.State.InFlight() {
		return ErrAttemptInProgress
	}
	f.attempt = Attempt{State: StateIdle}
	return nil
}

// OnPaymentSuccess applies a widget success to the live attempt.
func (f *Flow) OnPaymentSuccess(conf PaymentConfirmation) {
	f.paymentSucceeded(f.Current().ID, conf)
}

// OnPaymentFailed applies a widget failure to the live attempt.
func (f *Flow) OnPaymentFailed(failure GatewayFailure) {
	f.paymentFailed(f.Current().ID, failure)
}

// OnWidgetDismissed applies a widget dismissal to the live attempt.
func (f *Flow) OnWidgetDismissed() {
	f.dismissed(f.Current().ID)
}

func (f *Flow) validate(req DonationRequest) *FlowError {
	v := validation.NewValidator()
	v.Field("name", req.DonorName).Required()
	v.Field("email", req.DonorEmail).Required().Email()
	v.Field("phone", req.DonorPhone).Required()
	v.Field("amount", req.Amount).
		MinInt(1, internal.ErrCodeInvalidAmount).
		Custom(func(value interface{}) *internal.AppError {
			if value.(int64) < f.cfg.MinAmount {
				return internal.NewValidationFieldError("amount", f.minimumMessage(), internal.ErrCodeAmountTooLow)
			}
			return nil
		})
	v.Field("type", string(req.DonationType)).
		OneOf([]string{string(DonationOneTime), string(DonationMonthly)}, internal.ErrCodeInvalidDonationType)

	appErr := v.Validate()
	if appErr == nil {
		return nil
	}

	fields := appErr.FieldErrors()
	message := MessageRequiredFields
	for _, fe := range fields {
		if fe.Code == string(internal.ErrCodeInvalidEmail) {
			message = MessageInvalidEmail
			break
		}
		if fe.Field != "name" && fe.Field != "email" && fe.Field != "phone" {
			message = fe.Message
			break
		}
	}
	return &FlowError{
		Kind:    KindValidation,
		Message: message,
		Fields:  fields,
		Cause:   appErr,
	}
}

func (f *Flow) minimumMessage() string {
	if f.cfg.DefaultCurrency == "INR" {
		return fmt.Sprintf("Minimum donation amount is ₹%d", f.cfg.MinAmount)
	}
	return fmt.Sprintf("Minimum donation amount is %d %s", f.cfg.MinAmount, f.cfg.DefaultCurrency)
}

func (f *Flow) createOrder(ctx context.Context, req DonationRequest) (*PaymentOrder, *FlowError) {
	if f.cfg.OrderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = internal.WithTimeout(ctx, f.cfg.OrderTimeout)
		defer cancel()
	}

	resp, err := f.orders.CreateOrder(ctx, OrderRequest{
		Name:    req.DonorName,
		Email:   req.DonorEmail,
		Phone:   req.DonorPhone,
		PAN:     req.PanNumber,
		Address: req.Address,
		Amount:  req.Amount,
		Type:    req.DonationType,
	})
	if err != nil {
		detail := detailOf(err)
		message := MessageOrderCreationFailed
		if detail != "" {
			message = fmt.Sprintf("Failed to process donation: %s. Please try again.", detail)
		}
		return nil, &FlowError{Kind: KindOrderCreation, Message: message, Detail: detail, Cause: err}
	}

	return f.orderFromResponse(req, resp)
}

func (f *Flow) orderFromResponse(req DonationRequest, resp *OrderResponse) (*PaymentOrder, *FlowError) {
	invalid := func(reason string) *FlowError {
		return &FlowError{
			Kind:    KindInvalidOrder,
			Message: MessageInvalidOrder,
			Detail:  reason,
		}
	}

	if resp == nil {
		return nil, invalid("empty order response")
	}
	var missing []string
	if resp.OrderID == "" {
		missing = append(missing, "order_id")
	}
	if resp.GatewayKeyID == "" {
		missing = append(missing, "razorpay_key_id")
	}
	if resp.AmountMinorUnits == nil {
		missing = append(missing, "amount_paise")
	}
	if len(missing) > 0 {
		return nil, invalid("missing " + strings.Join(missing, ", "))
	}
	if *resp.AmountMinorUnits != req.MinorUnits() {
		return nil, invalid(fmt.Sprintf("amount_paise %d does not match amount %d", *resp.AmountMinorUnits, req.Amount))
	}

	currency := resp.Currency
	if currency == "" {
		currency = f.cfg.DefaultCurrency
	}
	return &PaymentOrder{
		OrderID:          resp.OrderID,
		GatewayKeyID:     resp.GatewayKeyID,
		AmountMinorUnits: *resp.AmountMinorUnits,
		Currency:         currency,
	}, nil
}

func (f *Flow) widgetConfig(req DonationRequest, order *PaymentOrder) WidgetConfig {
	return WidgetConfig{
		Key:         order.GatewayKeyID,
		Amount:      order.AmountMinorUnits,
		Currency:    order.Currency,
		Name:        f.cfg.BrandName,
		Description: f.cfg.Description,
		OrderID:     order.OrderID,
		Prefill: Prefill{
			Name:    req.DonorName,
			Email:   req.DonorEmail,
			Contact: req.DonorPhone,
		},
		Theme: Theme{Color: f.cfg.ThemeColor},
	}
}

// fail moves attempt id from state `from` to Failed. Stale ids are ignored.
func (f *Flow) fail(id string, from State, ferr *FlowError) (Attempt, error) {
	f.mu.Lock()
	if f.attempt.ID != id || f.attempt.State != from {
		current := f.attempt
		f.mu.Unlock()
		return current, nil
	}
	f.finishLocked(StateFailed)
	f.attempt.Err = ferr
	current := f.attempt
	f.mu.Unlock()

	f.logger.Warn("donation attempt failed", "attempt_id", id, "kind", ferr.Kind, "error", ferr.Error())
	f.notifyFailure(id, ferr)
	return current, ferr
}

func (f *Flow) finishLocked(state State) {
	finished := f.now()
	f.attempt.State = state
	f.attempt.FinishedAt = &finished
	f.resolving = false
}

// claim marks the awaiting attempt as being resolved so that only the
// first widget outcome is applied.
func (f *Flow) claim(id string) (Attempt, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attempt.ID != id || f.attempt.State != StateAwaitingPayment || f.resolving {
		return f.attempt, false
	}
	f.resolving = true
	return f.attempt, true
}

func (f *Flow) paymentSucceeded(id string, conf PaymentConfirmation) {
	attempt, ok := f.claim(id)
	if !ok {
		f.logger.Warn("ignoring payment success for inactive attempt", "attempt_id", id, "payment_id", conf.PaymentID)
		return
	}
	if conf.OrderID == "" && attempt.Order != nil {
		conf.OrderID = attempt.Order.OrderID
	}

	if f.verifier != nil {
		ctx, cancel := context.WithTimeout(context.Background(), f.cfg.VerifyTimeout)
		err := f.verifier.VerifyPayment(ctx, conf)
		cancel()
		if err != nil {
			ferr := &FlowError{
				Kind:    KindPaymentVerification,
				Message: MessageVerificationFailed,
				Detail:  detailOf(err),
				Cause:   err,
			}
			f.mu.Lock()
			f.finishLocked(StateFailed)
			f.attempt.Err = ferr
			f.attempt.Confirmation = &conf
			f.mu.Unlock()
			f.logger.Error("payment verification failed", "attempt_id", id, "order_id", conf.OrderID, "payment_id", conf.PaymentID, "error", err)
			f.notifyFailure(id, ferr)
			return
		}
	}

	f.mu.Lock()
	f.finishLocked(StateSucceeded)
	f.attempt.Confirmation = &conf
	f.form = DefaultForm()
	f.mu.Unlock()

	f.logger.Info("donation payment succeeded", "attempt_id", id, "order_id", conf.OrderID, "payment_id", conf.PaymentID, "outcome", "succeeded")
	f.notify(Notification{
		AttemptID: id,
		Level:     NotificationSuccess,
		State:     StateSucceeded,
		Message:   MessagePaymentSucceeded,
	})
}

func (f *Flow) paymentFailed(id string, failure GatewayFailure) {
	if _, ok := f.claim(id); !ok {
		f.logger.Warn("ignoring payment failure for inactive attempt", "attempt_id", id)
		return
	}
	message := strings.TrimSpace(failure.Description)
	if message == "" {
		message = MessagePaymentFailed
	}
	ferr := &FlowError{Kind: KindPaymentGateway, Message: message, Detail: failure.Reason}

	f.mu.Lock()
	f.finishLocked(StateFailed)
	f.attempt.Err = ferr
	f.mu.Unlock()

	f.logger.Warn("donation payment failed", "attempt_id", id, "code", failure.Code, "reason", failure.Reason, "outcome", "gateway_failure")
	f.notifyFailure(id, ferr)
}

func (f *Flow) dismissed(id string) {
	if _, ok := f.claim(id); !ok {
		f.logger.Debug("ignoring widget dismissal for inactive attempt", "attempt_id", id)
		return
	}

	f.mu.Lock()
	f.finishLocked(StateCancelled)
	f.mu.Unlock()

	f.logger.Info("donation payment cancelled by donor", "attempt_id", id, "outcome", "cancelled")
	f.notify(Notification{
		AttemptID: id,
		Level:     NotificationInfo,
		State:     StateCancelled,
		Message:   MessagePaymentCancelled,
	})
}

func (f *Flow) notifyFailure(id string, ferr *FlowError) {
	f.notify(Notification{
		AttemptID: id,
		Level:     NotificationError,
		State:     StateFailed,
		Kind:      ferr.Kind,
		Message:   ferr.Message,
	})
}

func (f *Flow) notify(n Notification) {
	if f.notifier != nil {
		f.notifier.Notify(n)
	}
}

// attemptCallbacks binds widget outcomes to the attempt that opened the widget.
type attemptCallbacks struct {
	flow      *Flow
	attemptID string
}

func (c *attemptCallbacks) PaymentSucceeded(conf PaymentConfirmation) {
	c.flow.paymentSucceeded(c.attemptID, conf)
}

func (c *attemptCallbacks) PaymentFailed(failure GatewayFailure) {
	c.flow.paymentFailed(c.attemptID, failure)
}

func (c *attemptCallbacks) Dismissed() {
	c.flow.dismissed(c.attemptID)
}

// Widget returns the widget configuration while the attempt awaits payment.
func (f *Flow) Widget() (WidgetConfig, bool) {
	current := f.Current()
	if current.State != StateAwaitingPayment || current.Order == nil {
		return WidgetConfig{}, false
	}
	return f.widgetConfig(current.Request, current.Order), true
}
