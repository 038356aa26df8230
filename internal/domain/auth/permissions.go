package auth

const (
	PermOrgRead          = "org.read"
	PermOrgWrite         = "org.write"
	PermEmployeesRead    = "employees.read"
	PermEmployeesWrite   = "employees.write"
	PermAssessmentsRead  = "assessments.read"
	PermAssessmentsWrite = "assessments.write"
	PermReportsRead      = "reports.read"
	PermUsersManage      = "users.manage"
	PermAuditRead        = "audit.read"
	PermJobsRun          = "jobs.run"
)

var DefaultPermissions = []string{
	PermOrgRead,
	PermOrgWrite,
	PermEmployeesRead,
	PermEmployeesWrite,
	PermAssessmentsRead,
	PermAssessmentsWrite,
	PermReportsRead,
	PermUsersManage,
	PermAuditRead,
	PermJobsRun,
}

var RolePermissions = map[string][]string{
	RoleUser: {
		PermOrgRead,
		PermEmployeesRead,
		PermAssessmentsRead,
		PermReportsRead,
	},
	RoleAdmin: DefaultPermissions,
}

func RoleHasPermission(role, permission string) bool {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true
		}
	}
	return false
}
