package volunteer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	errors "github.com/frahmantamala/ngo-donations/internal"
	volunteerDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/volunteer"
)

type RepositoryAPI interface {
	Create(ctx context.Context, v *volunteerDatamodel.Volunteer) error
	GetByID(ctx context.Context, id string) (*volunteerDatamodel.Volunteer, error)
	List(ctx context.Context, status string, limit int) ([]*volunteerDatamodel.Volunteer, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
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

func (s *Service) Apply(ctx context.Context, dto CreateVolunteerDTO) (*Volunteer, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	v := &Volunteer{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(dto.Name),
		Email:        strings.ToLower(strings.TrimSpace(dto.Email)),
		Phone:        strings.TrimSpace(dto.Phone),
		City:         strings.TrimSpace(dto.City),
		Interests:    strings.TrimSpace(dto.Interests),
		Availability: strings.TrimSpace(dto.Availability),
		Message:      strings.TrimSpace(dto.Message),
		Status:       StatusNew,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, ToDataModel(v)); err != nil {
		s.logger.Error("failed to store volunteer application", "error", err)
		return nil, errors.NewInternalError("Failed to submit application", err)
	}

	s.logger.Info("volunteer application received", "volunteer_id", v.ID)
	return v, nil
}

func (s *Service) List(ctx context.Context, status string, limit int) ([]*Volunteer, error) {
	rows, err := s.repo.List(ctx, status, limit)
	if err != nil {
		s.logger.Error("failed to list volunteers", "error", err)
		return nil, errors.NewInternalError("Failed to list volunteer applications", err)
	}
	volunteers := make([]*Volunteer, 0, len(rows))
	for _, row := range rows {
		volunteers = append(volunteers, FromDataModel(row))
	}
	return volunteers, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load volunteer stats", err)
	}
	stats := &Stats{
		New:       counts[StatusNew],
		Contacted: counts[StatusContacted],
		Accepted:  counts[StatusAccepted],
		Rejected:  counts[StatusRejected],
	}
	for _, c := range counts {
		stats.Total += c
	}
	return stats, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, dto UpdateVolunteerDTO) (*Volunteer, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, dto.Status); err != nil {
		return nil, err
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("volunteer status updated", "volunteer_id", id, "status", dto.Status)
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
