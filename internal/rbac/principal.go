package rbac

const (
	RoleAdmin    = "ADMIN"
	RoleHR       = "HR"
	RoleEmployee = "EMPLOYEE"
)

// Principal is the authenticated caller as carried by the access token.
// EmployeeID is empty for identities that are not linked to an employee.
type Principal struct {
	IdentityID string `json:"identity_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id,omitempty"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}

// IsSelf reports whether the principal is linked to employeeID.
func IsSelf(p Principal, employeeID string) bool {
	return p.EmployeeID != "" && p.EmployeeID == employeeID
}
