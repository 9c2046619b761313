package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	errors "github.com/frahmantamala/ngo-donations/internal"
	volunteerDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/volunteer"
	"github.com/frahmantamala/ngo-donations/internal/volunteer"
)

type VolunteerRepository struct {
	db *gorm.DB
}

func NewVolunteerRepository(db *gorm.DB) volunteer.RepositoryAPI {
	return &VolunteerRepository{db: db}
}

func (r *VolunteerRepository) Create(ctx context.Context, v *volunteerDatamodel.Volunteer) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VolunteerRepository) GetByID(ctx context.Context, id string) (*volunteerDatamodel.Volunteer, error) {
	var v volunteerDatamodel.Volunteer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrVolunteerNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *VolunteerRepository) List(ctx context.Context, status string, limit int) ([]*volunteerDatamodel.Volunteer, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []*volunteerDatamodel.Volunteer
	err := query.Find(&rows).Error
	return rows, err
}

func (r *VolunteerRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&volunteerDatamodel.Volunteer{}).
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

func (r *VolunteerRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).Model(&volunteerDatamodel.Volunteer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrVolunteerNotFound
	}
	return nil
}

func (r *VolunteerRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&volunteerDatamodel.Volunteer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrVolunteerNotFound
	}
	return nil
}
