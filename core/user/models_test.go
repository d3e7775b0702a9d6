package user

import "testing"

func TestUser_roles(t *testing.T) {
	tests := []struct {
		name                            string
		roles                           []string
		isAdmin, isAssistant, isStudent bool
	}{
		{name: "no roles"},
		{name: "student", roles: []string{RoleStudent}, isStudent: true},
		{name: "assistant", roles: []string{RoleAssistant}, isAssistant: true},
		{name: "assistant lead", roles: []string{RoleAssistantLead}, isAssistant: true},
		{name: "admin", roles: []string{RoleAdmin}, isAdmin: true},
		{name: "owner", roles: []string{RoleAdminOwner}, isAdmin: true},
		{name: "mixed", roles: []string{RoleStudent, RoleAssistant}, isAssistant: true, isStudent: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := User{Roles: tt.roles}
			if got := u.IsAdmin(); got != tt.isAdmin {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.isAdmin)
			}
			if got := u.IsAssistant(); got != tt.isAssistant {
				t.Errorf("IsAssistant() = %v, want %v", got, tt.isAssistant)
			}
			if got := u.IsStudent(); got != tt.isStudent {
				t.Errorf("IsStudent() = %v, want %v", got, tt.isStudent)
			}
		})
	}
}

func TestMaxRolePriority(t *testing.T) {
	if MaxRolePriority([]string{RoleStudent, RoleAdminOwner}) != RolePriority(RoleAdminOwner) {
		t.Error("owner should outrank student")
	}
	if MaxRolePriority(nil) != 0 {
		t.Error("no roles should have zero priority")
	}
	if MaxRolePriority([]string{RoleAssistant}) <= MaxRolePriority([]string{RoleStudent}) {
		t.Error("assistant should outrank student")
	}
}

func TestUser_password(t *testing.T) {
	var u User
	if err := u.SetPassword("s3cr3t"); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	if string(u.PasswordHash) == "s3cr3t" {
		t.Error("password stored in plaintext")
	}
	if err := u.CheckPassword("s3cr3t"); err != nil {
		t.Errorf("CheckPassword(correct) error = %v", err)
	}
	if err := u.CheckPassword("wrong"); err == nil {
		t.Error("CheckPassword(wrong) expected an error")
	}
}
