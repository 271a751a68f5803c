// internal/domain/access/evaluator.go
package access

// The evaluator is pure and synchronous: no I/O, no side effects. It is
// consulted both when rendering admin controls and again inside every
// mutating handler, so hiding a button is never the only gate.

// productPrivilege applies the shared role short-circuit: admins are allowed
// unconditionally, non-staff roles are denied unconditionally, and staff with
// role "user" fall through to their privilege bundle.
func productPrivilege(a Actor, flag func(PrivilegeBundle) bool) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleUser:
		if a.Privileges == nil {
			return false
		}
		return flag(*a.Privileges)
	default:
		return false
	}
}

// CanAddProducts reports whether the actor may create products
func CanAddProducts(a Actor) bool {
	return productPrivilege(a, func(p PrivilegeBundle) bool { return p.CanAddProducts })
}

// CanUpdateProducts reports whether the actor may modify products
func CanUpdateProducts(a Actor) bool {
	return productPrivilege(a, func(p PrivilegeBundle) bool { return p.CanUpdateProducts })
}

// CanDeleteProducts reports whether the actor may delete products
func CanDeleteProducts(a Actor) bool {
	return productPrivilege(a, func(p PrivilegeBundle) bool { return p.CanDeleteProducts })
}

// CanManageUsers reports whether the actor may manage staff accounts.
// Admin only.
func CanManageUsers(a Actor) bool {
	return a.Role == RoleAdmin
}

// CanManageCustomers reports whether the actor may manage customer records.
// Any authenticated staff identity qualifies.
func CanManageCustomers(a Actor) bool {
	return a.Role.IsStaff()
}

// CanViewAdminData reports whether the actor may see back-office screens
func CanViewAdminData(a Actor) bool {
	return a.Role.IsStaff()
}
