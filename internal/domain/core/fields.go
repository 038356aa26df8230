package core

import "hrkpi/internal/domain/auth"

// FilterEmployeeFields hides personal identifiers from non-admin viewers of
// someone else's record.
func FilterEmployeeFields(emp *Employee, user auth.UserContext, isSelf bool) {
	if user.Role == auth.RoleAdmin || isSelf {
		return
	}
	emp.PNOSNumber = nil
	if emp.User != nil {
		masked := *emp.User
		masked.Email = ""
		emp.User = &masked
	}
}
