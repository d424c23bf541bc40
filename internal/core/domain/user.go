package domain

// Role determines a user's default permissions.
type Role string

const (
	RoleCommercial Role = "commercial"
	RoleManagement Role = "management"
	RoleSupport    Role = "support"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCommercial, RoleManagement, RoleSupport:
		return true
	}
	return false
}

// User models an operator of the CRM. A user owns clients and contracts as
// commercial contact and events as support contact; deleting a user
// dissociates all three relations instead of deleting the dependents.
type User struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	Email        string
	Role         Role
	PasswordHash string
}
