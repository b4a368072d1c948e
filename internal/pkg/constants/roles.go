package constants

const (
	Admin  = "admin"
	Issuer = "issuer"
	Holder = "holder"
)

// ValidRoles is the set of allowed values for the user role column.
var ValidRoles = []string{Holder, Issuer, Admin}

// IsValidRole returns true if role is one of the allowed values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
