package volunteer

import "time"

type Volunteer struct {
	ID           string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;not null"`
	Phone        string    `gorm:"column:phone;not null"`
	City         string    `gorm:"column:city"`
	Interests    string    `gorm:"column:interests"`
	Availability string    `gorm:"column:availability"`
	Message      string    `gorm:"column:message"`
	Status       string    `gorm:"column:status;not null;default:new;index"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Volunteer) TableName() string {
	return "volunteers"
}
