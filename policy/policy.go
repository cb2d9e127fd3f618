// Package policy owns role classification and the authorization decisions
// for order access. Roles are derived from group membership and resolved
// once per request; controllers pass the resolved role into every check so
// no handler inspects groups on its own.
package policy

import (
	"gorm.io/gorm"

	"little-lemon-api/models"
)

type Role int

const (
	RoleCustomer Role = iota
	RoleDeliveryCrew
	RoleManager
)

func (r Role) String() string {
	switch r {
	case RoleManager:
		return "manager"
	case RoleDeliveryCrew:
		return "delivery_crew"
	default:
		return "customer"
	}
}

// ResolveRole classifies a user by group membership. A user in both groups
// is treated as Manager; membership data itself is untouched.
func ResolveRole(db *gorm.DB, userID uint) (Role, error) {
	var names []string
	err := db.Model(&models.Group{}).
		Joins("JOIN user_groups ON user_groups.group_id = groups.id").
		Where("user_groups.user_id = ?", userID).
		Pluck("groups.name", &names).Error
	if err != nil {
		return RoleCustomer, err
	}

	role := RoleCustomer
	for _, name := range names {
		switch name {
		case models.GroupManager:
			return RoleManager, nil
		case models.GroupDeliveryCrew:
			role = RoleDeliveryCrew
		}
	}
	return role, nil
}

// IsInGroup reports raw membership in a named group, independent of the
// priority rule (a manager who also drives deliveries is still a valid
// delivery_crew assignee).
func IsInGroup(db *gorm.DB, userID uint, groupName string) (bool, error) {
	var count int64
	err := db.Model(&models.Group{}).
		Joins("JOIN user_groups ON user_groups.group_id = groups.id").
		Where("user_groups.user_id = ? AND groups.name = ?", userID, groupName).
		Count(&count).Error
	return count > 0, err
}

// OrderScope narrows an order query to the rows the caller may see.
// Lookups outside the scope come back as record-not-found, never as a
// permission error, so order ids cannot be probed.
func OrderScope(db *gorm.DB, role Role, userID uint) *gorm.DB {
	switch role {
	case RoleManager:
		return db
	case RoleDeliveryCrew:
		return db.Where("delivery_crew_id = ?", userID)
	default:
		return db.Where("user_id = ?", userID)
	}
}

// Decision is the outcome of a mutation check. Reason is the caller-facing
// message when Allowed is false.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(msg string) Decision { return Decision{Reason: msg} }

// CanUpdateOrder decides whether role may apply a patch touching the given
// fields. Managers may change anything. Delivery crew may change status and
// nothing else; a patch without status, or carrying any extra field, is
// rejected outright rather than partially applied.
func CanUpdateOrder(role Role, fields []string) Decision {
	switch role {
	case RoleManager:
		return allow()
	case RoleDeliveryCrew:
		if len(fields) == 0 {
			return deny("You can only update status")
		}
		for _, f := range fields {
			if f != "status" {
				return deny("You can only update status")
			}
		}
		return allow()
	default:
		return deny("You cannot update orders")
	}
}

func CanDeleteOrder(role Role) Decision {
	if role == RoleManager {
		return allow()
	}
	return deny("Only managers can delete orders")
}
