package model

// Role codes. The session principal carries exactly one of these.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Privilege codes checked by middleware.RequirePrivilege
const (
	PrivUserManage      = "user:manage"
	PrivSettingUpdate   = "setting:update"
	PrivCatalogManage   = "catalog:manage"
	PrivTransactionView = "transaction:view"
	PrivTransactionEdit = "transaction:edit"
	PrivDashboardView   = "dashboard:view"
)

var userPrivileges = []string{
	PrivCatalogManage,
	PrivTransactionView,
	PrivTransactionEdit,
	PrivDashboardView,
}

// PrivilegesForRole returns the privilege codes granted to a role.
// Admin gets everything, including user and settings management.
func PrivilegesForRole(role string) []string {
	switch role {
	case RoleAdmin:
		return append([]string{PrivUserManage, PrivSettingUpdate}, userPrivileges...)
	case RoleUser:
		return append([]string(nil), userPrivileges...)
	default:
		return nil
	}
}

// ValidRole reports whether role is one of the known role codes
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
