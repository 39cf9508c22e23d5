package services

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"goodsgo/internal/authz"
	"goodsgo/internal/logger"
	"goodsgo/internal/models"
)

func newAuthFixture(users ...models.User) (*authService, *fakeUserRepo) {
	repo := newFakeUserRepo(users...)
	svc := NewAuthService(repo, logger.Discard()).(*authService)
	svc.bcryptCost = bcrypt.MinCost
	svc.now = func() time.Time { return time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc, repo := newAuthFixture()

	res, user := svc.Register(ctx, models.RegisterRequest{
		Name:            "  北野 太郎 ",
		Email:           " 24.a.kitano.nutfes@gmail.com ",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	if !res.OK || user == nil {
		t.Fatalf("register = %+v", res)
	}
	if user.Role != authz.RoleMember || user.Name != "北野 太郎" {
		t.Fatalf("unexpected user: %+v", user)
	}
	stored, _ := repo.FindByID(ctx, user.ID)
	if stored.PasswordHash == "" || stored.PasswordHash == "password123" {
		t.Fatal("password must be stored hashed")
	}

	res, got := svc.Login(ctx, models.LoginRequest{Email: "24.a.kitano.nutfes@gmail.com", Password: "password123"})
	if !res.OK || got == nil || got.ID != user.ID {
		t.Fatalf("login = %+v, %v", res, got)
	}

	res, got = svc.Login(ctx, models.LoginRequest{Email: "24.a.kitano.nutfes@gmail.com", Password: "wrongpass1"})
	if res.OK || got != nil || res.Message != msgInvalidCredentials {
		t.Fatalf("wrong password = %+v", res)
	}
	res, _ = svc.Login(ctx, models.LoginRequest{Email: "24.b.nobody.nutfes@gmail.com", Password: "password123"})
	if res.Message != msgInvalidCredentials {
		t.Fatalf("unknown email = %+v", res)
	}

	res, _ = svc.Register(ctx, models.RegisterRequest{
		Name: "別の人", Email: "24.a.kitano.nutfes@gmail.com", Password: "password456", ConfirmPassword: "password456",
	})
	if res.OK || res.Message != msgAlreadyRegistered {
		t.Fatalf("duplicate = %+v", res)
	}
}

func TestAuthValidationMessages(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	res, _ := svc.Register(ctx, models.RegisterRequest{
		Name:            "ab",
		Email:           "someone@example.com",
		Password:        "short",
		ConfirmPassword: "different",
	})
	want := map[string]string{
		"name":            msgNameLength,
		"email":           msgEmailFormat,
		"password":        msgPasswordFormat,
		"confirmPassword": msgPasswordMismatch,
	}
	for field, msg := range want {
		if got := res.FieldErrors[field]; len(got) != 1 || got[0] != msg {
			t.Errorf("%s: got %v, want %q", field, got, msg)
		}
	}

	res, _ = svc.Login(ctx, models.LoginRequest{Email: "24.A.kitano.nutfes@gmail.com", Password: "pass-word1"})
	if res.FieldErrors["email"][0] != msgEmailFormat || res.FieldErrors["password"][0] != msgPasswordFormat {
		t.Fatalf("login errors = %v", res.FieldErrors)
	}
}

func TestResolveProfile(t *testing.T) {
	deleted := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, _ := newAuthFixture(
		models.User{ID: "active", Name: "有効", Role: authz.RoleLeader},
		models.User{ID: "gone", Name: "削除済", Role: authz.RoleAdmin, Deleted: &deleted},
		models.User{ID: "odd", Name: "不明", Role: authz.Role(5)},
	)
	ctx := context.Background()

	p, err := svc.ResolveProfile(ctx, "active")
	if err != nil || p == nil || p.Role != authz.RoleLeader || p.Name != "有効" {
		t.Fatalf("active = %+v, %v", p, err)
	}
	for _, id := range []string{"gone", "odd", "missing", ""} {
		if p, err := svc.ResolveProfile(ctx, id); err != nil || p != nil {
			t.Errorf("%q should resolve to nil, got %+v, %v", id, p, err)
		}
	}
}
