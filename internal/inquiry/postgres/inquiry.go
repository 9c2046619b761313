package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	errors "github.com/frahmantamala/ngo-donations/internal"
	inquiryDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/inquiry"
	"github.com/frahmantamala/ngo-donations/internal/inquiry"
)

type InquiryRepository struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) inquiry.RepositoryAPI {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) Create(ctx context.Context, i *inquiryDatamodel.Inquiry) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *InquiryRepository) GetByID(ctx context.Context, id string) (*inquiryDatamodel.Inquiry, error) {
	var i inquiryDatamodel.Inquiry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&i).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrInquiryNotFound
		}
		return nil, err
	}
	return &i, nil
}

func (r *InquiryRepository) List(ctx context.Context, status string, limit int) ([]*inquiryDatamodel.Inquiry, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []*inquiryDatamodel.Inquiry
	err := query.Find(&rows).Error
	return rows, err
}

func (r *InquiryRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&inquiryDatamodel.Inquiry{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *InquiryRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).Model(&inquiryDatamodel.Inquiry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrInquiryNotFound
	}
	return nil
}

func (r *InquiryRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&inquiryDatamodel.Inquiry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrInquiryNotFound
	}
	return nil
}
