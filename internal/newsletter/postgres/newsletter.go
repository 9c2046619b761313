package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	errors "github.com/frahmantamala/ngo-donations/internal"
	newsletterDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/newsletter"
	"github.com/frahmantamala/ngo-donations/internal/newsletter"
)

type NewsletterRepository struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) newsletter.RepositoryAPI {
	return &NewsletterRepository{db: db}
}

func (r *NewsletterRepository) Create(ctx context.Context, s *newsletterDatamodel.Subscriber) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *NewsletterRepository) GetByEmail(ctx context.Context, email string) (*newsletterDatamodel.Subscriber, error) {
	var s newsletterDatamodel.Subscriber
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&s).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrSubscriberNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *NewsletterRepository) List(ctx context.Context, status string, limit int) ([]*newsletterDatamodel.Subscriber, error) {
	query := r.db.WithContext(ctx).Order("subscribed_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []*newsletterDatamodel.Subscriber
	err := query.Find(&rows).Error
	return rows, err
}

func (r *NewsletterRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&newsletterDatamodel.Subscriber{}).
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

func (r *NewsletterRepository) Reactivate(ctx context.Context, email string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&newsletterDatamodel.Subscriber{}).
		Where("email = ? AND status <> ?", email, newsletter.StatusActive).
		Updates(map[string]interface{}{"status": newsletter.StatusActive, "updated_at": time.Now()})
	return result.RowsAffected > 0, result.Error
}

func (r *NewsletterRepository) Unsubscribe(ctx context.Context, id string) error {
	return r.unsubscribe(ctx, "id = ?", id, errors.ErrSubscriberNotFound)
}

func (r *NewsletterRepository) UnsubscribeByEmail(ctx context.Context, email string) error {
	return r.unsubscribe(ctx, "email = ?", email, errors.ErrEmailNotSubscribed)
}

func (r *NewsletterRepository) unsubscribe(ctx context.Context, where string, arg string, notFound error) error {
	result := r.db.WithContext(ctx).Model(&newsletterDatamodel.Subscriber{}).
		Where(where, arg).
		Updates(map[string]interface{}{"status": newsletter.StatusUnsubscribed, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}
