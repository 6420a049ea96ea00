package services

import "testing"

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret")

	token, err := svc.Register(RegisterInput{Username: "alice", Password: "hunter2"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Fatal("register returned empty token")
	}

	if _, err := svc.Register(RegisterInput{Username: "alice", Password: "other"}); err == nil {
		t.Error("duplicate username should fail")
	}

	if _, err := svc.Login("alice", "hunter2"); err != nil {
		t.Errorf("Login: %v", err)
	}
	if _, err := svc.Login("alice", "wrong"); err == nil {
		t.Error("wrong password should fail")
	}
	if _, err := svc.Login("nobody", "hunter2"); err == nil {
		t.Error("unknown user should fail")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret")

	token, err := svc.GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	userID, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id = %d, want 42", userID)
	}

	// A token signed with another secret is rejected.
	other := NewAuthService(db, "different-secret")
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("cross-secret token should be rejected")
	}

	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token should be rejected")
	}
}
