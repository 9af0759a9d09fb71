package models

import "fmt"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// IsAdmin reports whether the role carries admin-wide task rights.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

type User struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	EmployeeID  string       `json:"employee_id"`
	Role        Role         `json:"role"`
	Designation *Designation `json:"designation,omitempty"`
}

// Designation is an organizational label attached to a user, independent of
// any task membership. Managed by superadmins only.
type Designation struct {
	ID                  int64  `json:"id"`
	OrganizationalTitle string `json:"organizational_title,omitempty"`
	TaskSourceLabel     string `json:"task_source_label,omitempty"`
	IsDivisionHead      bool   `json:"is_division_head,omitempty"`
}

// Validate enforces that exactly one designation kind is set.
func (d *Designation) Validate() error {
	kinds := 0
	if d.OrganizationalTitle != "" {
		kinds++
	}
	if d.TaskSourceLabel != "" {
		kinds++
	}
	if d.IsDivisionHead {
		kinds++
	}
	if kinds != 1 {
		return fmt.Errorf("designation must set exactly one of organizational_title, task_source_label, is_division_head")
	}
	return nil
}
