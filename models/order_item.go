package models

// OrderItem is an immutable snapshot of a cart line taken at checkout.
type OrderItem struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	OrderID    uint     `gorm:"not null;index" json:"-"`
	Order      Order    `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID uint     `gorm:"not null" json:"-"`
	MenuItem   MenuItem `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnDelete:RESTRICT" json:"menuitem"`
	Quantity   int      `gorm:"not null" json:"quantity"`
	UnitPrice  float64  `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Price      float64  `gorm:"type:decimal(10,2);not null" json:"price"`
}
