package models

import "time"

// Cart is one pending line in a user's cart. At most one row per
// (user, menu item) pair; repeat adds merge into the existing row.
// UnitPrice is frozen at first add and never refreshed from MenuItem.
type Cart struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_cart_user_item" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	MenuItemID uint      `gorm:"not null;uniqueIndex:idx_cart_user_item" json:"-"`
	MenuItem   MenuItem  `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnDelete:RESTRICT" json:"menuitem"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	UnitPrice  float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Price      float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt  time.Time `gorm:"not null" json:"-"`
	UpdatedAt  time.Time `gorm:"not null" json:"-"`
}
