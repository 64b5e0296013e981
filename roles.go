package storefront

// UserRole is the user's role
type UserRole string

const (
	// RoleBuyer is the default storefront role (browse, purchase)
	RoleBuyer UserRole = "buyer"
	// RoleSeller can manage catalog entries
	RoleSeller UserRole = "seller"
	// RoleAdmin can manage every resource, including users
	RoleAdmin UserRole = "admin"
)

// ParseRole returns the role and whether it is one of the known roles
func ParseRole(role string) (UserRole, bool) {
	switch UserRole(role) {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return UserRole(role), true
	default:
		return "", false
	}
}

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// CanManageCatalog reports whether the role may create or modify
// products and categories
func (r UserRole) CanManageCatalog() bool {
	switch r {
	case RoleSeller, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanManageUsers reports whether the role may list or delete other users
func (r UserRole) CanManageUsers() bool {
	return r == RoleAdmin
}

// IsAtLeast checks if this role meets the minimum required level
func (r UserRole) IsAtLeast(minRole UserRole) bool {
	hierarchy := map[UserRole]int{
		RoleBuyer:  0,
		RoleSeller: 1,
		RoleAdmin:  2,
	}

	level, ok := hierarchy[r]
	if !ok {
		return false
	}

	min, ok := hierarchy[minRole]
	if !ok {
		return false
	}

	return level >= min
}
