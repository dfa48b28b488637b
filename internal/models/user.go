package models

// User type codes used by the backend.
const (
	UserTypeAdmin    = 1
	UserTypeEmployee = 2
	UserTypeCustomer = 3
)

type User struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	UserName         string  `json:"userName"`
	Mobile           string  `json:"mobile"`
	Email            string  `json:"email"`
	Balance          float64 `json:"balance"`
	Points           float64 `json:"points"`
	RoleId           int     `json:"roleId"`
	RoleName         string  `json:"roleName"`
	UserTypeValue    int     `json:"userTypeValue"`
	SupervisorId     int     `json:"supervisorId,omitempty"`
	IsActive         bool    `json:"isActive"`
	ProfileImagePath string  `json:"profileImagePath,omitempty"`
}

// IsEmployee reports whether the backend typed this account as staff rather
// than a plain customer.
func (u User) IsEmployee() bool {
	return u.UserTypeValue == UserTypeEmployee
}
