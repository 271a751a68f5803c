package access

import "testing"

func bundle(add, update, del bool) *PrivilegeBundle {
	return &PrivilegeBundle{
		CanAddProducts:    add,
		CanUpdateProducts: update,
		CanDeleteProducts: del,
	}
}

func TestProductPrivilegeDecisionTable(t *testing.T) {
	tests := []struct {
		name                      string
		actor                     Actor
		wantAdd, wantUpd, wantDel bool
	}{
		{"admin ignores bundle", Actor{Role: RoleAdmin, Privileges: bundle(false, false, false)}, true, true, true},
		{"admin without bundle", Actor{Role: RoleAdmin}, true, true, true},
		{"user with all flags", Actor{Role: RoleUser, Privileges: bundle(true, true, true)}, true, true, true},
		{"user with add only", Actor{Role: RoleUser, Privileges: bundle(true, false, false)}, true, false, false},
		{"user with no bundle", Actor{Role: RoleUser}, false, false, false},
		{"user with empty bundle", Actor{Role: RoleUser, Privileges: bundle(false, false, false)}, false, false, false},
		{"customer", Actor{Role: RoleCustomer}, false, false, false},
		{"customer with stray bundle", Actor{Role: RoleCustomer, Privileges: bundle(true, true, true)}, false, false, false},
		{"anonymous", Anonymous(), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAddProducts(tt.actor); got != tt.wantAdd {
				t.Errorf("CanAddProducts = %v, want %v", got, tt.wantAdd)
			}
			if got := CanUpdateProducts(tt.actor); got != tt.wantUpd {
				t.Errorf("CanUpdateProducts = %v, want %v", got, tt.wantUpd)
			}
			if got := CanDeleteProducts(tt.actor); got != tt.wantDel {
				t.Errorf("CanDeleteProducts = %v, want %v", got, tt.wantDel)
			}
		})
	}
}

func TestManagementPredicates(t *testing.T) {
	admin := Actor{Role: RoleAdmin}
	staff := Actor{Role: RoleUser}
	customer := Actor{Role: RoleCustomer}

	if !CanManageUsers(admin) {
		t.Error("admin should manage users")
	}
	if CanManageUsers(staff) {
		t.Error("non-admin staff should not manage users")
	}
	if CanManageUsers(customer) {
		t.Error("customer should not manage users")
	}

	if !CanManageCustomers(admin) || !CanManageCustomers(staff) {
		t.Error("any staff should manage customers")
	}
	if CanManageCustomers(customer) {
		t.Error("customer should not manage customers")
	}

	if !CanViewAdminData(admin) || !CanViewAdminData(staff) {
		t.Error("any staff should view admin data")
	}
	if CanViewAdminData(customer) || CanViewAdminData(Anonymous()) {
		t.Error("non-staff should not view admin data")
	}
}

func TestAdminOverrideIsUnconditional(t *testing.T) {
	// Whatever the bundle says, role admin wins on every predicate.
	bundles := []*PrivilegeBundle{
		nil,
		bundle(false, false, false),
		bundle(true, false, true),
	}
	for _, b := range bundles {
		a := Actor{Role: RoleAdmin, Privileges: b}
		if !CanAddProducts(a) || !CanUpdateProducts(a) || !CanDeleteProducts(a) {
			t.Fatalf("admin denied with bundle %+v", b)
		}
	}
}
