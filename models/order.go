package models

import "time"

// Order is the persisted result of a checkout. UserID and Total are set
// once at creation; only Status and DeliveryCrewID may change afterwards,
// and only for the roles allowed by the policy package.
type Order struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	UserID         uint        `gorm:"not null;index" json:"-"`
	User           User        `gorm:"foreignKey:UserID;references:ID" json:"-"`
	DeliveryCrewID *uint       `gorm:"index" json:"-"`
	DeliveryCrew   *User       `gorm:"foreignKey:DeliveryCrewID;references:ID" json:"-"`
	Status         bool        `gorm:"not null;default:false" json:"status"`
	Total          float64     `gorm:"type:decimal(10,2);not null" json:"total"`
	Date           time.Time   `gorm:"type:date;not null" json:"date"`
	OrderItems     []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
	CreatedAt      time.Time   `gorm:"not null" json:"-"`
	UpdatedAt      time.Time   `gorm:"not null" json:"-"`
}
