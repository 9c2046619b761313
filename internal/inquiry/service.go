package inquiry

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	errors "github.com/frahmantamala/ngo-donations/internal"
	inquiryDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/inquiry"
)

type RepositoryAPI interface {
	Create(ctx context.Context, i *inquiryDatamodel.Inquiry) error
	GetByID(ctx context.Context, id string) (*inquiryDatamodel.Inquiry, error)
	List(ctx context.Context, status string, limit int) ([]*inquiryDatamodel.Inquiry, error)
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

func (s *Service) Create(ctx context.Context, dto CreateInquiryDTO) (*Inquiry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	inq := &Inquiry{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(dto.Name),
		Email:     strings.TrimSpace(dto.Email),
		Phone:     strings.TrimSpace(dto.Phone),
		Subject:   strings.TrimSpace(dto.Subject),
		Message:   strings.TrimSpace(dto.Message),
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, ToDataModel(inq)); err != nil {
		s.logger.Error("failed to create inquiry", "error", err)
		return nil, errors.NewInternalError("Failed to submit inquiry", err)
	}

	s.logger.Info("inquiry received", "inquiry_id", inq.ID)
	return inq, nil
}

func (s *Service) List(ctx context.Context, status string, limit int) ([]*Inquiry, error) {
	rows, err := s.repo.List(ctx, status, limit)
	if err != nil {
		s.logger.Error("failed to list inquiries", "error", err)
		return nil, errors.NewInternalError("Failed to list inquiries", err)
	}
	inquiries := make([]*Inquiry, 0, len(rows))
	for _, row := range rows {
		inquiries = append(inquiries, FromDataModel(row))
	}
	return inquiries, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load inquiry stats", err)
	}
	stats := &Stats{
		New:     counts[StatusNew],
		Replied: counts[StatusReplied],
		Closed:  counts[StatusClosed],
	}
	for _, c := range counts {
		stats.Total += c
	}
	return stats, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, dto UpdateInquiryDTO) (*Inquiry, error) {
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
	s.logger.Info("inquiry status updated", "inquiry_id", id, "status", dto.Status)
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
