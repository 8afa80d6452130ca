package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"amazonia/internal/config"
	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	mem "amazonia/pkg/memcache"
	"amazonia/pkg/utils"
)

type authFixture struct {
	svc    AuthServiceInterface
	users  *fakeUserRepo
	tokens *fakeTokenRepo
	mail   *fakeMail
	jwt    *utils.TokenManager
}

func newAuthFixture() authFixture {
	cfg := &config.Config{JWT: config.JWTConfig{RefreshTTL: time.Hour}}
	f := authFixture{
		users:  newFakeUserRepo(),
		tokens: newFakeTokenRepo(),
		mail:   &fakeMail{},
		jwt:    utils.NewTokenManager("test-secret", "amazonia-test", 15*time.Minute),
	}
	f.svc = NewAuthService(f.users, f.tokens, f.jwt, cfg, mem.NewResetTokens(), f.mail)
	return f
}

func (f authFixture) register(t *testing.T, email, password string) {
	t.Helper()
	_, err := f.svc.Register(context.Background(), request_models.SignUpRequest{
		Name: "Ana", Email: email, Password: password,
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, request_models.SignUpRequest{
		Name: " Ana ", Email: "Ana@Example.com ", Password: "belem2025",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.User.Email != "ana@example.com" || resp.User.Name != "Ana" {
		t.Errorf("user = %+v, want normalized email and name", resp.User)
	}
	if resp.User.Role != db_models.RoleUser || resp.TokenType != "Bearer" || resp.ExpiresIn != 900 {
		t.Errorf("unexpected auth response %+v", resp)
	}
	claims, err := f.jwt.ValidateToken(resp.AccessToken)
	if err != nil || claims.UserID != resp.User.ID {
		t.Fatalf("access token invalid: %v", err)
	}

	if _, err := f.svc.Register(ctx, request_models.SignUpRequest{
		Name: "Ana", Email: "ana@example.com", Password: "belem2025",
	}); !errors.Is(err, utils.ErrEmailAlreadyExists) {
		t.Errorf("duplicate Register() error = %v", err)
	}

	if _, err := f.svc.Login(ctx, request_models.LoginRequest{Email: "ANA@example.com", Password: "belem2025"}); err != nil {
		t.Errorf("Login() error = %v", err)
	}
}

func TestAuthService_LoginFailuresShareMessage(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "ana@example.com", "belem2025")

	tests := []request_models.LoginRequest{
		{Email: "ana@example.com", Password: "wrong-pass1"},
		{Email: "nobody@example.com", Password: "belem2025"},
	}
	for _, req := range tests {
		if _, err := f.svc.Login(context.Background(), req); !errors.Is(err, utils.ErrInvalidCredentials) {
			t.Errorf("Login(%s) error = %v, want ErrInvalidCredentials", req.Email, err)
		}
	}
}

func TestAuthService_RefreshRotates(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	first, err := f.svc.Register(ctx, request_models.SignUpRequest{Name: "Ana", Email: "ana@example.com", Password: "belem2025"})
	if err != nil {
		t.Fatal(err)
	}

	second, err := f.svc.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh token was not rotated")
	}
	if _, err := f.svc.Refresh(ctx, first.RefreshToken); !errors.Is(err, utils.ErrInvalidToken) {
		t.Errorf("replayed refresh error = %v, want ErrInvalidToken", err)
	}
	if _, err := f.svc.Refresh(ctx, "not-a-token"); !errors.Is(err, utils.ErrInvalidToken) {
		t.Errorf("unknown refresh error = %v", err)
	}

	if err := f.svc.Logout(ctx, second.RefreshToken); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Refresh(ctx, second.RefreshToken); !errors.Is(err, utils.ErrInvalidToken) {
		t.Errorf("refresh after logout error = %v", err)
	}
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.register(t, "ana@example.com", "belem2025")

	if err := f.svc.ForgotPassword(ctx, "ghost@example.com"); err != nil {
		t.Fatalf("ForgotPassword(unknown) error = %v", err)
	}
	if len(f.mail.sent) != 0 {
		t.Fatal("mail sent for unknown address")
	}

	if err := f.svc.ForgotPassword(ctx, "Ana@example.com"); err != nil {
		t.Fatal(err)
	}
	if len(f.mail.sent) != 1 || len(f.mail.sent[0].code) != 6 {
		t.Fatalf("sent = %+v, want one 6-digit code", f.mail.sent)
	}
	code := f.mail.sent[0].code

	err := f.svc.ResetPassword(ctx, request_models.ResetPasswordRequest{
		Email: "ana@example.com", Token: "000000x", NewPassword: "amazonia1",
	})
	if !errors.Is(err, utils.ErrInvalidResetToken) {
		t.Errorf("wrong code error = %v", err)
	}

	if err := f.svc.ResetPassword(ctx, request_models.ResetPasswordRequest{
		Email: "ana@example.com", Token: code, NewPassword: "amazonia1",
	}); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if _, err := f.svc.Login(ctx, request_models.LoginRequest{Email: "ana@example.com", Password: "amazonia1"}); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
	if err := f.svc.ResetPassword(ctx, request_models.ResetPasswordRequest{
		Email: "ana@example.com", Token: code, NewPassword: "amazonia2",
	}); !errors.Is(err, utils.ErrInvalidResetToken) {
		t.Errorf("reused code error = %v", err)
	}
}

func TestAuthService_ForgotPasswordSwallowsMailErrors(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "ana@example.com", "belem2025")
	f.mail.err = errors.New("smtp down")

	if err := f.svc.ForgotPassword(context.Background(), "ana@example.com"); err != nil {
		t.Errorf("ForgotPassword() error = %v, want nil", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	resp, err := f.svc.Register(ctx, request_models.SignUpRequest{Name: "Ana", Email: "ana@example.com", Password: "belem2025"})
	if err != nil {
		t.Fatal(err)
	}
	user, _ := f.users.FindByEmail(ctx, "ana@example.com")

	tests := []struct {
		name    string
		req     request_models.ChangePasswordRequest
		wantErr error
	}{
		{"wrong current", request_models.ChangePasswordRequest{CurrentPassword: "nope12345", NewPassword: "amazonia1"}, utils.ErrInvalidCredentials},
		{"same password", request_models.ChangePasswordRequest{CurrentPassword: "belem2025", NewPassword: "belem2025"}, utils.ErrSamePassword},
		{"ok", request_models.ChangePasswordRequest{CurrentPassword: "belem2025", NewPassword: "amazonia1"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.ChangePassword(ctx, user.ID, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ChangePassword() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := f.svc.Refresh(ctx, resp.RefreshToken); !errors.Is(err, utils.ErrInvalidToken) {
		t.Errorf("refresh token survived password change: %v", err)
	}
}

func TestAuthService_CreateAdmin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	user, created, err := f.svc.CreateAdmin(ctx, request_models.CreateAdminRequest{
		Name: "Root", Email: "root@example.com", Password: "belem2025",
	})
	if err != nil || !created || user.Role != db_models.RoleAdmin {
		t.Fatalf("CreateAdmin() = %+v, %v, %v", user, created, err)
	}

	f.register(t, "ana@example.com", "belem2025")
	user, created, err = f.svc.CreateAdmin(ctx, request_models.CreateAdminRequest{Email: "ana@example.com"})
	if err != nil || created || user.Role != db_models.RoleAdmin {
		t.Fatalf("promote = %+v, %v, %v", user, created, err)
	}

	if _, _, err := f.svc.CreateAdmin(ctx, request_models.CreateAdminRequest{
		Name: "Weak", Email: "weak@example.com", Password: "short",
	}); !errors.Is(err, utils.ErrInvalidRequest) {
		t.Errorf("weak password error = %v", err)
	}
}
