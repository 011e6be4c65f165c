// Package session holds the current authenticated identity and answers
// authorization questions for it: whether a route is permitted for the
// current role and where to land after login.
package session

import "strings"

// Role is one of the closed set of authorization levels.
type Role string

// The closed role set. RoleCustomer is the least-privileged default.
const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleOperator      Role = "OPERATOR"
	RoleCustomer      Role = "CUSTOMER"
)

// Route paths the gate decides between.
const (
	PathHome              = "/"
	PathLogin             = "/login"
	PathAdminDashboard    = "/admin/dashboard"
	PathOperatorDashboard = "/operator/dashboard"
)

// Session is an authenticated identity and its role. Token is the opaque
// bearer credential forwarded on backend calls.
type Session struct {
	Identity string `json:"identity"`
	Role     Role   `json:"role"`
	Token    string `json:"token"`
}

// ParseRole maps a canonical role tag to a Role. It accepts only the closed
// set; anything else reports false.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdministrator, RoleOperator, RoleCustomer:
		return Role(s), true
	}
	return "", false
}

// NormalizeRole maps whatever role spelling the backend returns to the
// closed set, once, at this boundary. It accepts the canonical tags and the
// legacy Spanish names. An unrecognized non-empty value normalizes to
// RoleCustomer - the least-privileged role, never an elevated one. An empty
// value reports false: a session without a resolvable role is invalid.
func NormalizeRole(raw string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "":
		return "", false
	case "ADMINISTRATOR", "ADMINISTRADOR":
		return RoleAdministrator, true
	case "OPERATOR", "OPERADOR":
		return RoleOperator, true
	default:
		return RoleCustomer, true
	}
}

// Decision is the outcome of an authorization check.
type Decision int

// Authorization outcomes.
const (
	// Allow grants access to the protected view.
	Allow Decision = iota
	// RedirectToLogin means no session is present.
	RedirectToLogin
	// RedirectToHome means a session is present but its role does not match.
	RedirectToHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToHome:
		return "redirect-to-home"
	default:
		return "unknown"
	}
}

// HasRole reports whether s carries exactly the given role. It never fails:
// a nil session has no role.
func HasRole(s *Session, role Role) bool {
	return s != nil && s.Role == role
}

// Authorize is the single rule every protected view consumes: no session
// redirects to login, a session with the wrong role redirects home,
// otherwise access is allowed. An empty required role means any
// authenticated role is sufficient.
func Authorize(s *Session, required Role) Decision {
	if s == nil {
		return RedirectToLogin
	}
	if required != "" && s.Role != required {
		return RedirectToHome
	}
	return Allow
}

// LandingPathFor returns where to send the user right after login.
// Unrecognized roles land on the least-privileged home path.
func LandingPathFor(s *Session) string {
	if s == nil {
		return PathHome
	}
	switch s.Role {
	case RoleAdministrator:
		return PathAdminDashboard
	case RoleOperator:
		return PathOperatorDashboard
	default:
		return PathHome
	}
}
