package enums

import "fmt"

// UserRole identifies what an authenticated identity is allowed to do.
type UserRole string

const (
	UserRoleVendor   UserRole = "vendor"
	UserRoleBuyer    UserRole = "buyer"
	UserRoleSupplier UserRole = "supplier"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleVendor, UserRoleBuyer, UserRoleSupplier:
		return true
	default:
		return false
	}
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(raw string) (UserRole, error) {
	role := UserRole(raw)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid user role %q", raw)
	}
	return role, nil
}
