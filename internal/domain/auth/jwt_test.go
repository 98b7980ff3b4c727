package auth

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	token, expiresAt, err := svc.GenerateAccessToken(
		"user-1", "keeper@example.com",
		[]string{"warehouse_keeper"},
		[]string{PermStockInCreate, PermStockOutCreate},
		false,
	)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Errorf("token already expired: %v", expiresAt)
	}

	uc, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if uc.UserID != "user-1" || uc.Email != "keeper@example.com" {
		t.Errorf("bad identity: %+v", uc)
	}
	if len(uc.Roles) != 1 || uc.Roles[0] != "warehouse_keeper" {
		t.Errorf("bad roles: %v", uc.Roles)
	}
	if len(uc.Permissions) != 2 {
		t.Errorf("bad permissions: %v", uc.Permissions)
	}
	if uc.IsAdmin {
		t.Error("unexpected admin flag")
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, _, err := NewJWTService(DefaultJWTConfig("secret-a")).
		GenerateAccessToken("user-1", "a@example.com", nil, nil, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := NewJWTService(DefaultJWTConfig("secret-b")).ValidateToken(token); err == nil {
		t.Fatal("expected validation failure with wrong secret")
	}
}

func TestUserHasPermission(t *testing.T) {
	u := &User{Permissions: []string{PermMaterialView}}
	if !u.HasPermission(PermMaterialView) {
		t.Error("granted permission denied")
	}
	if u.HasPermission(PermMaterialDelete) {
		t.Error("missing permission allowed")
	}

	admin := &User{IsAdmin: true}
	if !admin.HasPermission(PermUserManage) {
		t.Error("admin must bypass permission checks")
	}
}

func TestRecordFailedLoginLocks(t *testing.T) {
	u := NewUser("x@example.com", "hash")

	for i := 0; i < 4; i++ {
		u.RecordFailedLogin(5, 15*time.Minute)
	}
	if u.IsLocked() {
		t.Fatal("locked before reaching max attempts")
	}

	u.RecordFailedLogin(5, 15*time.Minute)
	if !u.IsLocked() {
		t.Fatal("expected lock after max attempts")
	}
	if err := u.CanLogin(); err == nil {
		t.Error("locked account must not login")
	}

	u.RecordSuccessfulLogin()
	if u.IsLocked() || u.FailedLoginAttempts != 0 {
		t.Error("successful login must reset lock state")
	}
}
