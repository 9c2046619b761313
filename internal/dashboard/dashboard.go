package dashboard

import "time"

type DonationStats struct {
	TotalAmount   int64 `json:"total_amount" db:"total_amount"`
	TotalCount    int64 `json:"total_count" db:"total_count"`
	MonthlyDonors int64 `json:"monthly_donors" db:"monthly_donors"`
}

type VolunteerStats struct {
	Total    int64 `json:"total" db:"total"`
	New      int64 `json:"new" db:"new_count"`
	Accepted int64 `json:"accepted" db:"accepted"`
}

type InquiryStats struct {
	Total int64 `json:"total" db:"total"`
	New   int64 `json:"new" db:"new_count"`
}

// Stats is the admin dashboard summary. Donation figures count completed payments only.
type Stats struct {
	Donations  DonationStats  `json:"donations"`
	Volunteers VolunteerStats `json:"volunteers"`
	Inquiries  InquiryStats   `json:"inquiries"`
}

type RecentItem struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Detail    string    `json:"detail,omitempty" db:"detail"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Recent struct {
	Donations  []RecentItem `json:"donations"`
	Inquiries  []RecentItem `json:"inquiries"`
	Volunteers []RecentItem `json:"volunteers"`
}
