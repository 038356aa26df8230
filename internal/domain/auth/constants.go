package auth

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

const minPasswordLength = 6

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
