package newsletter

import (
	"time"

	newsletterDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/newsletter"
)

const (
	StatusActive       = "active"
	StatusUnsubscribed = "unsubscribed"
)

var Statuses = []string{StatusActive, StatusUnsubscribed}

type Subscriber struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Status       string    `json:"status"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

func (s *Subscriber) IsActive() bool {
	return s.Status == StatusActive
}

func ToDataModel(s *Subscriber) *newsletterDatamodel.Subscriber {
	return &newsletterDatamodel.Subscriber{
		ID:           s.ID,
		Email:        s.Email,
		Status:       s.Status,
		SubscribedAt: s.SubscribedAt,
	}
}

func FromDataModel(s *newsletterDatamodel.Subscriber) *Subscriber {
	return &Subscriber{
		ID:           s.ID,
		Email:        s.Email,
		Status:       s.Status,
		SubscribedAt: s.SubscribedAt,
	}
}
