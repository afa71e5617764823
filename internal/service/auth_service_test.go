package service

import (
	"errors"
	"testing"

	"github.com/mixcampeao/api/internal/config"
	"github.com/mixcampeao/api/internal/models"
	"github.com/mixcampeao/api/internal/repository"

	"gorm.io/gorm"
)

func newTestAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "segredo-de-teste"
	cfg.JWT.ExpireHours = 168
	cfg.Security.PasswordPolicy.MinLength = 6
	return NewAuthService(cfg, repository.NewUserRepository(db))
}

func TestRegisterLoginRoundtrip(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)

	user, token, _, err := svc.Register(RegisterInput{
		Name:     "Maria Silva",
		Email:    "Maria@Exemplo.com.br",
		Password: "senha-forte",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "maria@exemplo.com.br" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Role != models.RoleCustomer {
		t.Fatalf("role: got %s expected customer", user.Role)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Role != user.Role {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	logged, _, _, err := svc.Login("maria@exemplo.com.br", "senha-forte")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("login returned a different account")
	}
	if logged.LastLoginAt == nil {
		t.Fatalf("last_login_at not recorded")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)

	if _, _, _, err := svc.Register(RegisterInput{Name: "A", Email: "dup@exemplo.com", Password: "senha-forte"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	// Email matching is case-insensitive.
	_, _, _, err := svc.Register(RegisterInput{Name: "B", Email: "DUP@Exemplo.com", Password: "senha-forte"})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRegisterInvalidInput(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)

	cases := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"bad email", RegisterInput{Name: "A", Email: "sem-arroba", Password: "senha-forte"}, ErrInvalidInput},
		{"empty name", RegisterInput{Name: "  ", Email: "a@exemplo.com", Password: "senha-forte"}, ErrInvalidInput},
		{"short password", RegisterInput{Name: "A", Email: "a@exemplo.com", Password: "curta"}, ErrWeakPassword},
	}
	for _, tc := range cases {
		if _, _, _, err := svc.Register(tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLoginFailures(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)

	if _, _, _, err := svc.Register(RegisterInput{Name: "A", Email: "a@exemplo.com", Password: "senha-forte"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, _, err := svc.Login("a@exemplo.com", "senha-errada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("ninguem@exemplo.com", "senha-forte"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}

	if err := db.Model(&models.User{}).Where("email = ?", "a@exemplo.com").
		Update("status", models.UserStatusBlocked).Error; err != nil {
		t.Fatalf("block user failed: %v", err)
	}
	if _, _, _, err := svc.Login("a@exemplo.com", "senha-forte"); !errors.Is(err, ErrUserBlocked) {
		t.Fatalf("blocked user: expected ErrUserBlocked, got %v", err)
	}
}

func TestParseJWTRejectsForgedTokens(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)

	user, token, _, err := svc.Register(RegisterInput{Name: "A", Email: "a@exemplo.com", Password: "senha-forte"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.ParseJWT(token + "x"); err == nil {
		t.Fatalf("tampered token accepted")
	}

	other := newTestAuthService(db)
	other.cfg.JWT.SecretKey = "outro-segredo"
	foreign, _, err := other.GenerateJWT(user)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := svc.ParseJWT(foreign); err == nil {
		t.Fatalf("token signed with a different secret accepted")
	}
}
