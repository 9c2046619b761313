package donation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	errors "github.com/frahmantamala/ngo-donations/internal"
	donationDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/donation"
	"github.com/frahmantamala/ngo-donations/internal/core/events"
	"github.com/frahmantamala/ngo-donations/internal/paymentgateway"
)

type RepositoryAPI interface {
	Create(ctx context.Context, d *donationDatamodel.Donation) error
	GetByID(ctx context.Context, id string) (*donationDatamodel.Donation, error)
	GetByOrderID(ctx context.Context, orderID string) (*donationDatamodel.Donation, error)
	List(ctx context.Context, filter ListFilter) ([]*donationDatamodel.Donation, error)
	SetOrderID(ctx context.Context, id, orderID string) error
	// MarkFailed fails a still-pending donation and reports whether it did.
	MarkFailed(ctx context.Context, id, reason string) (bool, error)
	// MarkCompleted completes a donation that is not yet completed and reports whether it did.
	MarkCompleted(ctx context.Context, id, paymentID string, paidAt time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	ListPendingBefore(ctx context.Context, before time.Time, limit int) ([]*donationDatamodel.Donation, error)
	// MarkAbandoned flips a still-pending donation and reports whether it did.
	MarkAbandoned(ctx context.Context, id string) (bool, error)
}

// Gateway creates and verifies payment orders.
type Gateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, req paymentgateway.OrderRequest) (*paymentgateway.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type RateLimiter interface {
	Allow(ctx context.Context, scope, subject string) (bool, error)
}

type Config struct {
	Currency     string
	MinAmount    int64
	OrderTimeout time.Duration
}

type Service struct {
	repo      RepositoryAPI
	gateway   Gateway
	limiter   RateLimiter
	publisher events.Publisher
	config    Config
	logger    *slog.Logger
}

// NewService builds the donation service. gateway may be nil when payment
// credentials are not configured; limiter and publisher may be nil.
func NewService(repo RepositoryAPI, gateway Gateway, limiter RateLimiter, publisher events.Publisher, config Config, logger *slog.Logger) *Service {
	if config.Currency == "" {
		config.Currency = errors.DefaultCurrency
	}
	if config.MinAmount <= 0 {
		config.MinAmount = errors.DefaultMinAmount
	}
	return &Service{
		repo:      repo,
		gateway:   gateway,
		limiter:   limiter,
		publisher: publisher,
		config:    config,
		logger:    logger,
	}
}

func (s *Service) GatewayConfigured() bool {
	return s.gateway != nil
}

// CreateOrder persists a pending donation, creates its gateway order and
// links the two. A gateway failure marks the donation failed.
func (s *Service) CreateOrder(ctx context.Context, dto CreateOrderDTO) (*CreateOrderResponse, error) {
	dto.Normalize()
	if err := dto.Validate(s.config.MinAmount); err != nil {
		return nil, err
	}
	if s.gateway == nil {
		s.logger.Error("create order requested but payment gateway is not configured")
		return nil, errors.ErrGatewayNotConfigured
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, "create-order", dto.Email)
		if err != nil {
			s.logger.Warn("rate limiter unavailable, allowing request", "error", err)
		} else if !allowed {
			s.logger.Warn("create order rate limited", "email", dto.Email)
			return nil, errors.NewTooManyRequestsError("Too many donation attempts. Please wait a moment and try again.")
		}
	}

	donation := NewDonation(uuid.NewString(), dto)
	if err := s.repo.Create(ctx, ToDataModel(donation)); err != nil {
		s.logger.Error("failed to persist donation", "error", err, "donation_id", donation.ID)
		return nil, errors.NewInternalError("Failed to create donation", err)
	}
	s.logger.Info("donation created", "donation_id", donation.ID, "amount", donation.Amount, "type", donation.Type)

	orderCtx := ctx
	if s.config.OrderTimeout > 0 {
		var cancel context.CancelFunc
		orderCtx, cancel = context.WithTimeout(ctx, s.config.OrderTimeout)
		defer cancel()
	}

	order, err := s.gateway.CreateOrder(orderCtx, paymentgateway.OrderRequest{
		AmountPaise: donation.AmountPaise(),
		Currency:    s.config.Currency,
		Receipt:     donation.ID,
		Notes: map[string]string{
			"donation_id":   donation.ID,
			"donor_name":    donation.Name,
			"donor_email":   donation.Email,
			"donor_phone":   donation.Phone,
			"donation_type": donation.Type,
		},
	})
	if err == nil {
		err = s.repo.SetOrderID(ctx, donation.ID, order.ID)
	}
	if err != nil {
		s.logger.Error("gateway order creation failed", "error", err, "donation_id", donation.ID)
		if _, markErr := s.repo.MarkFailed(context.WithoutCancel(ctx), donation.ID, err.Error()); markErr != nil {
			s.logger.Error("failed to mark donation failed", "error", markErr, "donation_id", donation.ID)
		}
		s.publish(ctx, events.NewDonationFailedEvent(donation.ID, donation.Amount, donation.Type, donation.Email, err.Error()))
		return nil, errors.ErrOrderCreationFailed.WithCause(err)
	}

	currency := order.Currency
	if currency == "" {
		currency = s.config.Currency
	}
	amountPaise := order.Amount
	if amountPaise == 0 {
		amountPaise = donation.AmountPaise()
	}

	s.publish(ctx, events.NewDonationOrderCreatedEvent(donation.ID, order.ID, donation.Amount, donation.Type, donation.Email))

	return &CreateOrderResponse{
		Status:        "created",
		OrderID:       order.ID,
		DonationID:    donation.ID,
		Amount:        donation.Amount,
		AmountPaise:   amountPaise,
		Currency:      currency,
		RazorpayKeyID: s.gateway.KeyID(),
		Donor: DonorInfo{
			Name:  donation.Name,
			Email: donation.Email,
			Phone: donation.Phone,
		},
	}, nil
}

// VerifyPayment checks the widget signature and completes the donation.
// Verifying an already completed donation again succeeds.
func (s *Service) VerifyPayment(ctx context.Context, dto VerifyPaymentDTO) (*VerifyPaymentResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if s.gateway == nil {
		return nil, errors.ErrGatewayNotConfigured
	}

	row, err := s.repo.GetByOrderID(ctx, dto.OrderID)
	if err != nil {
		return nil, err
	}
	donation := FromDataModel(row)

	if !s.gateway.VerifySignature(dto.OrderID, dto.PaymentID, dto.Signature) {
		s.logger.Warn("payment signature mismatch", "donation_id", donation.ID, "order_id", dto.OrderID, "payment_id", dto.PaymentID)
		return nil, errors.ErrInvalidSignature
	}

	if donation.IsCompleted() {
		return s.alreadyVerified(donation, dto)
	}

	changed, err := s.repo.MarkCompleted(ctx, donation.ID, dto.PaymentID, time.Now())
	if err != nil {
		s.logger.Error("failed to complete donation", "error", err, "donation_id", donation.ID)
		return nil, errors.NewInternalError("Failed to record payment", err)
	}
	if !changed {
		// completed concurrently, e.g. by the webhook
		row, err := s.repo.GetByID(ctx, donation.ID)
		if err != nil {
			return nil, err
		}
		return s.alreadyVerified(FromDataModel(row), dto)
	}
	s.logger.Info("donation completed", "donation_id", donation.ID, "order_id", dto.OrderID, "payment_id", dto.PaymentID)

	s.publish(ctx, events.NewDonationCompletedEvent(donation.ID, dto.OrderID, dto.PaymentID, donation.Amount, donation.Type, donation.Email))

	return &VerifyPaymentResponse{Status: StatusCompleted, DonationID: donation.ID, PaymentID: dto.PaymentID}, nil
}

func (s *Service) alreadyVerified(donation *Donation, dto VerifyPaymentDTO) (*VerifyPaymentResponse, error) {
	s.logger.Info("payment already verified", "donation_id", donation.ID, "order_id", dto.OrderID)
	paymentID := dto.PaymentID
	if donation.RazorpayPaymentID != nil {
		paymentID = *donation.RazorpayPaymentID
	}
	return &VerifyPaymentResponse{Status: StatusCompleted, DonationID: donation.ID, PaymentID: paymentID}, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Donation, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list donations", "error", err)
		return nil, errors.NewInternalError("Failed to list donations", err)
	}
	donations := make([]*Donation, 0, len(rows))
	for _, row := range rows {
		donations = append(donations, FromDataModel(row))
	}
	return donations, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Donation, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, dto UpdateStatusDTO) (*Donation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, dto.Status); err != nil {
		return nil, err
	}
	s.logger.Info("donation status updated", "donation_id", id, "status", dto.Status)
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("donation deleted", "donation_id", id)
	return nil
}

// ExpireStale marks donations still pending after olderThan as abandoned.
func (s *Service) ExpireStale(ctx context.Context, olderThan time.Duration) (int, error) {
	before := time.Now().Add(-olderThan)
	rows, err := s.repo.ListPendingBefore(ctx, before, 500)
	if err != nil {
		return 0, fmt.Errorf("list stale donations: %w", err)
	}

	expired := 0
	for _, row := range rows {
		changed, err := s.repo.MarkAbandoned(ctx, row.ID)
		if err != nil {
			s.logger.Error("failed to abandon donation", "error", err, "donation_id", row.ID)
			continue
		}
		if !changed {
			continue
		}
		expired++
		d := FromDataModel(row)
		s.publish(ctx, events.NewDonationAbandonedEvent(d.ID, d.OrderID(), d.Amount, d.Type, d.Email))
	}

	if expired > 0 {
		s.logger.Info("abandoned stale donations", "count", expired, "older_than", olderThan)
	}
	return expired, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
