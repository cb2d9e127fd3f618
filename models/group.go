package models

// Group names used for role resolution. Membership is many-to-many:
// a user may sit in both groups at once.
const (
	GroupManager      = "Manager"
	GroupDeliveryCrew = "Delivery Crew"
)

type Group struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);unique;not null" json:"name"`
}
