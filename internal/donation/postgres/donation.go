package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	errors "github.com/frahmantamala/ngo-donations/internal"
	donationDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/donation"
	"github.com/frahmantamala/ngo-donations/internal/donation"
)

type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) donation.RepositoryAPI {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) Create(ctx context.Context, d *donationDatamodel.Donation) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DonationRepository) GetByID(ctx context.Context, id string) (*donationDatamodel.Donation, error) {
	var d donationDatamodel.Donation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrDonationNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DonationRepository) GetByOrderID(ctx context.Context, orderID string) (*donationDatamodel.Donation, error) {
	var d donationDatamodel.Donation
	err := r.db.WithContext(ctx).Where("razorpay_order_id = ?", orderID).First(&d).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DonationRepository) List(ctx context.Context, filter donation.ListFilter) ([]*donationDatamodel.Donation, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []*donationDatamodel.Donation
	err := query.Find(&rows).Error
	return rows, err
}

func (r *DonationRepository) update(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&donationDatamodel.Donation{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrDonationNotFound
	}
	return nil
}

func (r *DonationRepository) SetOrderID(ctx context.Context, id, orderID string) error {
	return r.update(ctx, id, map[string]interface{}{"razorpay_order_id": orderID})
}

// MarkFailed fails a donation that is still pending and reports whether it did.
func (r *DonationRepository) MarkFailed(ctx context.Context, id, reason string) (bool, error) {
	return r.transition(ctx, id, "status = ?", donation.StatusPending, map[string]interface{}{
		"status": donation.StatusFailed,
		"error":  reason,
	})
}

// MarkCompleted completes a donation unless it already is, reporting whether the row changed.
func (r *DonationRepository) MarkCompleted(ctx context.Context, id, paymentID string, paidAt time.Time) (bool, error) {
	return r.transition(ctx, id, "status <> ?", donation.StatusCompleted, map[string]interface{}{
		"status":              donation.StatusCompleted,
		"razorpay_payment_id": paymentID,
		"paid_at":             paidAt,
		"error":               nil,
	})
}

// transition applies updates only while the row still matches guard, so
// concurrent writers cannot overwrite each other's status.
func (r *DonationRepository) transition(ctx context.Context, id, guard, status string, updates map[string]interface{}) (bool, error) {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&donationDatamodel.Donation{}).
		Where("id = ? AND "+guard, id, status).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *DonationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.update(ctx, id, map[string]interface{}{"status": status})
}

func (r *DonationRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&donationDatamodel.Donation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrDonationNotFound
	}
	return nil
}

func (r *DonationRepository) ListPendingBefore(ctx context.Context, before time.Time, limit int) ([]*donationDatamodel.Donation, error) {
	var rows []*donationDatamodel.Donation
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", donation.StatusPending, before).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *DonationRepository) MarkAbandoned(ctx context.Context, id string) (bool, error) {
	return r.transition(ctx, id, "status = ?", donation.StatusPending, map[string]interface{}{
		"status": donation.StatusAbandoned,
	})
}
