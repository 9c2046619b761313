package donation

import "time"

type Donation struct {
	ID                string     `gorm:"column:id;primaryKey;type:varchar(36)"`
	Name              string     `gorm:"column:name;not null"`
	Email             string     `gorm:"column:email;not null;index"`
	Phone             string     `gorm:"column:phone;not null"`
	PAN               *string    `gorm:"column:pan"`
	Address           *string    `gorm:"column:address"`
	Amount            int64      `gorm:"column:amount;not null"`
	Type              string     `gorm:"column:type;not null"`
	Status            string     `gorm:"column:status;not null;default:pending;index"`
	RazorpayOrderID   *string    `gorm:"column:razorpay_order_id;uniqueIndex"`
	RazorpayPaymentID *string    `gorm:"column:razorpay_payment_id"`
	Error             *string    `gorm:"column:error"`
	PaidAt            *time.Time `gorm:"column:paid_at"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Donation) TableName() string {
	return "donations"
}
