package volunteer

import (
	"time"

	volunteerDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/volunteer"
)

const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
)

var Statuses = []string{StatusNew, StatusContacted, StatusAccepted, StatusRejected}

// Volunteer is an application submitted from the public site.
type Volunteer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	City         string    `json:"city,omitempty"`
	Interests    string    `json:"interests,omitempty"`
	Availability string    `json:"availability,omitempty"`
	Message      string    `json:"message,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToDataModel(v *Volunteer) *volunteerDatamodel.Volunteer {
	return &volunteerDatamodel.Volunteer{
		ID:           v.ID,
		Name:         v.Name,
		Email:        v.Email,
		Phone:        v.Phone,
		City:         v.City,
		Interests:    v.Interests,
		Availability: v.Availability,
		Message:      v.Message,
		Status:       v.Status,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func FromDataModel(v *volunteerDatamodel.Volunteer) *Volunteer {
	return &Volunteer{
		ID:           v.ID,
		Name:         v.Name,
		Email:        v.Email,
		Phone:        v.Phone,
		City:         v.City,
		Interests:    v.Interests,
		Availability: v.Availability,
		Message:      v.Message,
		Status:       v.Status,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}
