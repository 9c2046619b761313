package inquiry

import (
	"time"

	inquiryDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/inquiry"
)

const (
	StatusNew     = "new"
	StatusReplied = "replied"
	StatusClosed  = "closed"
)

var Statuses = []string{StatusNew, StatusReplied, StatusClosed}

type Inquiry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToDataModel(i *Inquiry) *inquiryDatamodel.Inquiry {
	return &inquiryDatamodel.Inquiry{
		ID:        i.ID,
		Name:      i.Name,
		Email:     i.Email,
		Phone:     i.Phone,
		Subject:   i.Subject,
		Message:   i.Message,
		Status:    i.Status,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func FromDataModel(i *inquiryDatamodel.Inquiry) *Inquiry {
	return &Inquiry{
		ID:        i.ID,
		Name:      i.Name,
		Email:     i.Email,
		Phone:     i.Phone,
		Subject:   i.Subject,
		Message:   i.Message,
		Status:    i.Status,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}
