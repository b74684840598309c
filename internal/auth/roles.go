package auth

// Role is the fixed staff category that decides which operations an actor may invoke.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleAdmin     Role = "admin"
	RolePrincipal Role = "principal"
	RoleTeacher   Role = "teacher"
	RoleParent    Role = "parent"
)

// StaffRoles lists the roles an account can be created with.
var StaffRoles = []Role{RoleAdmin, RolePrincipal, RoleTeacher, RoleParent}

// Valid returns true when r names an account role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePrincipal, RoleTeacher, RoleParent:
		return true
	default:
		return false
	}
}

// Capability is one privileged action.
type Capability string

const (
	CapSubmitApplication    Capability = "application:submit"
	CapReadApplications     Capability = "application:read"
	CapRecommendApplication Capability = "application:recommend"
	CapConfirmApplication   Capability = "application:confirm"
	CapDeleteApplication    Capability = "application:delete"
	CapClockSelf            Capability = "attendance:clock"
	CapReadAttendance       Capability = "attendance:read"
	CapDecideAttendance     Capability = "attendance:decide"
	CapDeleteAttendance     Capability = "attendance:delete"
	CapManageUsers          Capability = "users:manage"
	CapReadMedia            Capability = "media:read"
	CapManageMedia          Capability = "media:manage"
)

var capabilities = map[Role]map[Capability]bool{
	RoleAnonymous: {
		CapSubmitApplication: true,
	},
	RoleParent: {
		CapSubmitApplication: true,
		CapClockSelf:         true,
	},
	RoleTeacher: {
		CapSubmitApplication: true,
		CapClockSelf:         true,
	},
	RolePrincipal: {
		CapSubmitApplication:    true,
		CapReadApplications:     true,
		CapRecommendApplication: true,
		CapClockSelf:            true,
		CapReadAttendance:       true,
		CapDecideAttendance:     true,
		CapReadMedia:            true,
	},
	RoleAdmin: {
		CapSubmitApplication:  true,
		CapReadApplications:   true,
		CapConfirmApplication: true,
		CapDeleteApplication:  true,
		CapClockSelf:          true,
		CapReadAttendance:     true,
		CapDecideAttendance:   true,
		CapDeleteAttendance:   true,
		CapManageUsers:        true,
		CapReadMedia:          true,
		CapManageMedia:        true,
	},
}

// Can reports whether role r holds capability c. Unknown roles hold nothing.
func Can(r Role, c Capability) bool {
	return capabilities[r][c]
}
