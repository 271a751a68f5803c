// internal/domain/access/actor.go
package access

// Role identifies the kind of identity behind a request
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleUser     Role = "user"
	RoleCustomer Role = "customer"
)

// IsStaff reports whether the role belongs to a back-office identity
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleUser
}

// PrivilegeBundle holds the product-management flags assignable to staff
// with role "user". Admins never consult the bundle.
type PrivilegeBundle struct {
	CanAddProducts    bool `json:"can_add_products"`
	CanUpdateProducts bool `json:"can_update_products"`
	CanDeleteProducts bool `json:"can_delete_products"`
}

// Actor describes an authenticated (or anonymous) identity for access checks.
// A nil Privileges pointer means no privilege record exists, which is treated
// the same as a record with every flag false.
type Actor struct {
	Role       Role             `json:"role"`
	Privileges *PrivilegeBundle `json:"privileges,omitempty"`
}

// Anonymous returns an actor with no role, which every predicate denies
func Anonymous() Actor {
	return Actor{}
}
