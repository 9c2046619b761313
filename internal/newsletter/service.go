package newsletter

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	errors "github.com/frahmantamala/ngo-donations/internal"
	newsletterDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/newsletter"
)

type RepositoryAPI interface {
	Create(ctx context.Context, s *newsletterDatamodel.Subscriber) error
	GetByEmail(ctx context.Context, email string) (*newsletterDatamodel.Subscriber, error)
	List(ctx context.Context, status string, limit int) ([]*newsletterDatamodel.Subscriber, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	// Reactivate flips an unsubscribed address back to active and reports whether it did.
	Reactivate(ctx context.Context, email string) (bool, error)
	Unsubscribe(ctx context.Context, id string) error
	UnsubscribeByEmail(ctx context.Context, email string) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Subscribe adds an address, or reactivates one that unsubscribed earlier.
// An address that is already active is rejected.
func (s *Service) Subscribe(ctx context.Context, dto SubscribeDTO) (*Subscriber, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, dto.Email)
	switch {
	case err == nil:
		return s.resubscribe(ctx, FromDataModel(existing))
	case err != errors.ErrSubscriberNotFound:
		s.logger.Error("failed to look up subscriber", "error", err)
		return nil, errors.NewInternalError("Failed to subscribe", err)
	}

	sub := &Subscriber{
		ID:           uuid.NewString(),
		Email:        dto.Email,
		Status:       StatusActive,
		SubscribedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, ToDataModel(sub)); err != nil {
		// lost a race with a concurrent subscribe for the same address
		if row, lookupErr := s.repo.GetByEmail(ctx, dto.Email); lookupErr == nil {
			return s.resubscribe(ctx, FromDataModel(row))
		}
		s.logger.Error("failed to create subscriber", "error", err)
		return nil, errors.NewInternalError("Failed to subscribe", err)
	}

	s.logger.Info("newsletter subscription added", "subscriber_id", sub.ID)
	return sub, nil
}

func (s *Service) resubscribe(ctx context.Context, sub *Subscriber) (*Subscriber, error) {
	if sub.IsActive() {
		return nil, errors.ErrAlreadySubscribed
	}
	changed, err := s.repo.Reactivate(ctx, sub.Email)
	if err != nil {
		s.logger.Error("failed to reactivate subscriber", "error", err, "subscriber_id", sub.ID)
		return nil, errors.NewInternalError("Failed to subscribe", err)
	}
	if !changed {
		return nil, errors.ErrAlreadySubscribed
	}
	sub.Status = StatusActive
	s.logger.Info("newsletter subscription reactivated", "subscriber_id", sub.ID)
	return sub, nil
}

func (s *Service) List(ctx context.Context, status string, limit int) ([]*Subscriber, error) {
	rows, err := s.repo.List(ctx, status, limit)
	if err != nil {
		s.logger.Error("failed to list subscribers", "error", err)
		return nil, errors.NewInternalError("Failed to list subscribers", err)
	}
	subs := make([]*Subscriber, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, FromDataModel(row))
	}
	return subs, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load newsletter stats", err)
	}
	stats := &Stats{Active: counts[StatusActive]}
	for _, c := range counts {
		stats.Total += c
	}
	stats.Unsubscribed = stats.Total - stats.Active
	return stats, nil
}

func (s *Service) Unsubscribe(ctx context.Context, id string) error {
	if err := s.repo.Unsubscribe(ctx, id); err != nil {
		return err
	}
	s.logger.Info("newsletter subscriber removed", "subscriber_id", id)
	return nil
}

func (s *Service) UnsubscribeByEmail(ctx context.Context, dto SubscribeDTO) error {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return err
	}
	return s.repo.UnsubscribeByEmail(ctx, dto.Email)
}
