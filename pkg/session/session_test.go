package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{"ADMINISTRATOR", RoleAdministrator, true},
		{"OPERATOR", RoleOperator, true},
		{"CUSTOMER", RoleCustomer, true},
		{"ADMINISTRADOR", "", false}, // legacy spelling is not canonical
		{"administrator", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		assert.Equal(t, tt.wantOK, ok, "ParseRole(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseRole(%q)", tt.in)
	}
}

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{"ADMINISTRATOR", RoleAdministrator, true},
		{"ADMINISTRADOR", RoleAdministrator, true},
		{"operador", RoleOperator, true},
		{"OPERATOR", RoleOperator, true},
		{"CLIENTE", RoleCustomer, true},
		{"CUSTOMER", RoleCustomer, true},
		// Unknown non-empty values fall to the least-privileged role,
		// never an elevated one.
		{"SUPERUSER", RoleCustomer, true},
		{"  cliente  ", RoleCustomer, true},
		{"", "", false},
		{"   ", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeRole(tt.in)
		assert.Equal(t, tt.wantOK, ok, "NormalizeRole(%q)", tt.in)
		assert.Equal(t, tt.want, got, "NormalizeRole(%q)", tt.in)
	}
}

func TestHasRole(t *testing.T) {
	admin := &Session{Identity: "ana", Role: RoleAdministrator}

	assert.True(t, HasRole(admin, RoleAdministrator))
	assert.False(t, HasRole(admin, RoleCustomer))
	assert.False(t, HasRole(nil, RoleAdministrator), "nil session never has a role")
}

func TestAuthorize(t *testing.T) {
	customer := &Session{Identity: "maria", Role: RoleCustomer}
	admin := &Session{Identity: "ana", Role: RoleAdministrator}

	tests := []struct {
		name     string
		session  *Session
		required Role
		want     Decision
	}{
		{"no session redirects to login", nil, RoleAdministrator, RedirectToLogin},
		{"no session redirects to login even without role", nil, "", RedirectToLogin},
		{"wrong role redirects home", customer, RoleAdministrator, RedirectToHome},
		{"matching role allows", admin, RoleAdministrator, Allow},
		{"any authenticated role allows when unrequired", customer, "", Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.session, tt.required))
		})
	}
}

func TestLandingPathFor(t *testing.T) {
	tests := []struct {
		name    string
		session *Session
		want    string
	}{
		{"administrator", &Session{Role: RoleAdministrator}, PathAdminDashboard},
		{"operator", &Session{Role: RoleOperator}, PathOperatorDashboard},
		{"customer", &Session{Role: RoleCustomer}, PathHome},
		{"unrecognized role lands home", &Session{Role: "SUPERUSER"}, PathHome},
		{"nil session lands home", nil, PathHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LandingPathFor(tt.session))
		})
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "redirect-to-login", RedirectToLogin.String())
	assert.Equal(t, "redirect-to-home", RedirectToHome.String())
}
