package newsletter

import "time"

type Subscriber struct {
	ID           string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	Status       string    `gorm:"column:status;not null;default:active;index"`
	SubscribedAt time.Time `gorm:"column:subscribed_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Subscriber) TableName() string {
	return "newsletter_subscribers"
}
