package permissions

import "slices"

// Role is the job a staff account performs. It is fixed when the account is created.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleElectrician  Role = "electrician"
	RolePlumber      Role = "plumber"
	RoleWaiter       Role = "waiter"
	RoleHousekeeping Role = "housekeeping"
	RoleMaintenance  Role = "maintenance"
)

func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

// Permission is a capability token granted to roles.
type Permission string

const (
	ViewAll              Permission = "view_all"
	ManageBookings       Permission = "manage_bookings"
	ManageUsers          Permission = "manage_users"
	ManageRequests       Permission = "manage_requests"
	ManageStaff          Permission = "manage_staff"
	ViewAssignedRequests Permission = "view_assigned_requests"
	UpdateRequests       Permission = "update_requests"
)

var tradePermissions = []Permission{ViewAssignedRequests, UpdateRequests}

var rolePermissions = map[Role][]Permission{
	RoleAdmin:        {ViewAll, ManageBookings, ManageUsers, ManageRequests, ManageStaff},
	RoleElectrician:  tradePermissions,
	RolePlumber:      tradePermissions,
	RoleWaiter:       tradePermissions,
	RoleHousekeeping: tradePermissions,
	RoleMaintenance:  tradePermissions,
}

// Roles lists every known role, admin first.
func Roles() []Role {
	return []Role{RoleAdmin, RoleElectrician, RolePlumber, RoleWaiter, RoleHousekeeping, RoleMaintenance}
}

// For returns a copy of the permissions granted to role, or nil for an unknown role.
func For(role Role) []Permission {
	return slices.Clone(rolePermissions[role])
}

// HasPermission reports whether role grants permission. Unknown roles grant nothing.
func HasPermission(role Role, permission Permission) bool {
	return slices.Contains(rolePermissions[role], permission)
}
