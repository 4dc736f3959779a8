package staff

import "testing"

func TestPasswordHashing(t *testing.T) {
	u := NewUser("mara", RoleWaiter)
	if err := u.SetPassword("secret123"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}

	if u.PasswordHash == "secret123" {
		t.Error("password stored in plain text")
	}
	if !u.CheckPassword("secret123") {
		t.Error("CheckPassword() rejected the correct password")
	}
	if u.CheckPassword("wrong") {
		t.Error("CheckPassword() accepted a wrong password")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleWaiter, RoleChef} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false", role)
		}
	}
	for _, role := range []string{"", "manager", "ADMIN"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true", role)
		}
	}
}
