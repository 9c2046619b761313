package dashboard

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/ngo-donations/internal"
)

const DefaultRecentLimit = 5

type RepositoryAPI interface {
	DonationStats(ctx context.Context) (DonationStats, error)
	VolunteerStats(ctx context.Context) (VolunteerStats, error)
	InquiryStats(ctx context.Context) (InquiryStats, error)
	RecentDonations(ctx context.Context, limit int) ([]RecentItem, error)
	RecentInquiries(ctx context.Context, limit int) ([]RecentItem, error)
	RecentVolunteers(ctx context.Context, limit int) ([]RecentItem, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var (
		stats Stats
		err   error
	)
	if stats.Donations, err = s.repo.DonationStats(ctx); err != nil {
		return nil, s.internal("donation stats", err)
	}
	if stats.Volunteers, err = s.repo.VolunteerStats(ctx); err != nil {
		return nil, s.internal("volunteer stats", err)
	}
	if stats.Inquiries, err = s.repo.InquiryStats(ctx); err != nil {
		return nil, s.internal("inquiry stats", err)
	}
	return &stats, nil
}

func (s *Service) Recent(ctx context.Context, limit int) (*Recent, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	var (
		recent Recent
		err    error
	)
	if recent.Donations, err = s.repo.RecentDonations(ctx, limit); err != nil {
		return nil, s.internal("recent donations", err)
	}
	if recent.Inquiries, err = s.repo.RecentInquiries(ctx, limit); err != nil {
		return nil, s.internal("recent inquiries", err)
	}
	if recent.Volunteers, err = s.repo.RecentVolunteers(ctx, limit); err != nil {
		return nil, s.internal("recent volunteers", err)
	}
	return &recent, nil
}

func (s *Service) internal(what string, err error) error {
	s.logger.Error("dashboard query failed", "query", what, "error", err)
	return errors.NewInternalError("Failed to load dashboard", err)
}
