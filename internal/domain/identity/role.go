package identity

// Role is a closed enumeration of account roles. The original system kept a
// hard-coded role-id dictionary; here the mapping to capabilities is a static
// table injected as a pure lookup, never mutated after process start.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
	RoleTeacher     Role = "teacher"
	RoleTreasurer   Role = "treasurer"
)

// IsValid checks if the role is part of the closed set
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCoordinator, RoleTeacher, RoleTreasurer:
		return true
	}
	return false
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Permission is a named capability checked at the HTTP layer
type Permission string

const (
	PermManageUsers    Permission = "users:manage"
	PermManageStudents Permission = "students:manage"
	PermViewFinancials Permission = "financials:view"
	PermManageBilling  Permission = "billing:manage"
	PermManagePayments Permission = "payments:manage"
)

// rolePermissions is the static capability table. Admin holds every
// permission; the other roles get the subsets the original services granted
// per route.
var rolePermissions = map[Role]map[Permission]bool{
	RoleAdmin: {
		PermManageUsers:    true,
		PermManageStudents: true,
		PermViewFinancials: true,
		PermManageBilling:  true,
		PermManagePayments: true,
	},
	RoleCoordinator: {
		PermManageStudents: true,
		PermViewFinancials: true,
		PermManagePayments: true,
	},
	RoleTreasurer: {
		PermViewFinancials: true,
		PermManageBilling:  true,
		PermManagePayments: true,
	},
	RoleTeacher: {
		PermViewFinancials: true,
	},
}

// HasPermission reports whether the role grants the permission. The lookup
// is pure; unknown roles grant nothing.
func (r Role) HasPermission(p Permission) bool {
	perms, ok := rolePermissions[r]
	if !ok {
		return false
	}
	return perms[p]
}

// Permissions lists the permissions granted to the role
func (r Role) Permissions() []Permission {
	perms := rolePermissions[r]
	out := make([]Permission, 0, len(perms))
	for p, granted := range perms {
		if granted {
			out = append(out, p)
		}
	}
	return out
}
