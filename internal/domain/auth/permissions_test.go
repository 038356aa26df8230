package auth

import "testing"

func TestRolePermissionsSubset(t *testing.T) {
	allowed := map[string]struct{}{}
	for _, perm := range DefaultPermissions {
		allowed[perm] = struct{}{}
	}

	for role, perms := range RolePermissions {
		if !ValidRole(role) {
			t.Fatalf("unexpected role %s", role)
		}
		if len(perms) == 0 {
			t.Fatalf("role %s has no permissions", role)
		}
		for _, perm := range perms {
			if _, ok := allowed[perm]; !ok {
				t.Fatalf("role %s has unknown permission %s", role, perm)
			}
		}
	}
}

func TestUserRoleIsReadOnly(t *testing.T) {
	writes := []string{PermOrgWrite, PermEmployeesWrite, PermAssessmentsWrite, PermUsersManage, PermAuditRead, PermJobsRun}
	for _, perm := range writes {
		if RoleHasPermission(RoleUser, perm) {
			t.Fatalf("USER must not hold %s", perm)
		}
		if !RoleHasPermission(RoleAdmin, perm) {
			t.Fatalf("ADMIN must hold %s", perm)
		}
	}
	if !RoleHasPermission(RoleUser, PermReportsRead) {
		t.Fatal("USER should read reports")
	}
}
