package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/ngo-donations/internal/dashboard"
)

const (
	donationStatsQuery = `
SELECT COALESCE(SUM(amount), 0) AS total_amount,
       COUNT(*) AS total_count,
       COALESCE(SUM(CASE WHEN type = 'monthly' THEN 1 ELSE 0 END), 0) AS monthly_donors
FROM donations
WHERE status = 'completed'`

	volunteerStatsQuery = `
SELECT COUNT(*) AS total,
       COALESCE(SUM(CASE WHEN status = 'new' THEN 1 ELSE 0 END), 0) AS new_count,
       COALESCE(SUM(CASE WHEN status = 'accepted' THEN 1 ELSE 0 END), 0) AS accepted
FROM volunteers`

	inquiryStatsQuery = `
SELECT COUNT(*) AS total,
       COALESCE(SUM(CASE WHEN status = 'new' THEN 1 ELSE 0 END), 0) AS new_count
FROM inquiries`

	recentDonationsQuery = `
SELECT id, name, CAST(amount AS TEXT) AS detail, status, created_at
FROM donations ORDER BY created_at DESC LIMIT ?`

	recentInquiriesQuery = `
SELECT id, name, COALESCE(subject, '') AS detail, status, created_at
FROM inquiries ORDER BY created_at DESC LIMIT ?`

	recentVolunteersQuery = `
SELECT id, name, COALESCE(interests, '') AS detail, status, created_at
FROM volunteers ORDER BY created_at DESC LIMIT ?`
)

type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) dashboard.RepositoryAPI {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) DonationStats(ctx context.Context) (dashboard.DonationStats, error) {
	var stats dashboard.DonationStats
	err := r.db.GetContext(ctx, &stats, donationStatsQuery)
	return stats, err
}

func (r *DashboardRepository) VolunteerStats(ctx context.Context) (dashboard.VolunteerStats, error) {
	var stats dashboard.VolunteerStats
	err := r.db.GetContext(ctx, &stats, volunteerStatsQuery)
	return stats, err
}

func (r *DashboardRepository) InquiryStats(ctx context.Context) (dashboard.InquiryStats, error) {
	var stats dashboard.InquiryStats
	err := r.db.GetContext(ctx, &stats, inquiryStatsQuery)
	return stats, err
}

func (r *DashboardRepository) RecentDonations(ctx context.Context, limit int) ([]dashboard.RecentItem, error) {
	return r.recent(ctx, recentDonationsQuery, limit)
}

func (r *DashboardRepository) RecentInquiries(ctx context.Context, limit int) ([]dashboard.RecentItem, error) {
	return r.recent(ctx, recentInquiriesQuery, limit)
}

func (r *DashboardRepository) RecentVolunteers(ctx context.Context, limit int) ([]dashboard.RecentItem, error) {
	return r.recent(ctx, recentVolunteersQuery, limit)
}

func (r *DashboardRepository) recent(ctx context.Context, query string, limit int) ([]dashboard.RecentItem, error) {
	items := []dashboard.RecentItem{}
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), limit); err != nil {
		return nil, err
	}
	return items, nil
}
