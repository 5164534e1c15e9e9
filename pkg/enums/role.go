package enums

import "fmt"

// Role represents a platform actor role.
type Role string

const (
	RoleUser           Role = "user"
	RoleDeliveryPerson Role = "delivery_person"
	RoleShopAdmin      Role = "shop_admin"
	RoleAdmin          Role = "admin"
	RoleSuperAdmin     Role = "super_admin"
)

var validRoles = []Role{
	RoleUser,
	RoleDeliveryPerson,
	RoleShopAdmin,
	RoleAdmin,
	RoleSuperAdmin,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsStaff reports whether the role can operate on any shop's orders.
// Shop admins are staff but remain scoped to their own shop.
func (r Role) IsStaff() bool {
	return r == RoleShopAdmin || r == RoleAdmin || r == RoleSuperAdmin
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
