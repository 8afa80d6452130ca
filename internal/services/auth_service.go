package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"amazonia/internal/config"
	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/internal/models/response_models"
	"amazonia/internal/repositories"
	mem "amazonia/pkg/memcache"
	"amazonia/pkg/logging"
	"amazonia/pkg/utils"
)

const (
	ResetCodeTTL     = 15 * time.Minute
	resetCodeLength  = 6
	refreshTokenSize = 32
	tokenTypeBearer  = "Bearer"
	defaultLanguage  = "pt"
)

// dummyHash keeps login timing similar for unknown emails.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z4G0Ef5dQdDqk6a0V8r1hYyG"

type AuthServiceInterface interface {
	Register(ctx context.Context, req request_models.SignUpRequest) (*response_models.AuthResponse, error)
	Login(ctx context.Context, req request_models.LoginRequest) (*response_models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*response_models.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, req request_models.ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req request_models.ResetPasswordRequest) error
	// CreateAdmin creates an admin account or promotes an existing one.
	CreateAdmin(ctx context.Context, req request_models.CreateAdminRequest) (*response_models.UserResponse, bool, error)
}

type AuthService struct {
	users      repositories.UserRepository
	tokens     repositories.RefreshTokenRepository
	jwt        *utils.TokenManager
	refreshTTL time.Duration
	resetCodes mem.ResetTokenStore
	mail       IMailService
	now        func() time.Time
}

func NewAuthService(
	users repositories.UserRepository,
	tokens repositories.RefreshTokenRepository,
	jwt *utils.TokenManager,
	cfg *config.Config,
	resetCodes mem.ResetTokenStore,
	mail IMailService,
) AuthServiceInterface {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		jwt:        jwt,
		refreshTTL: cfg.JWT.RefreshTTL,
		resetCodes: resetCodes,
		mail:       mail,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, req request_models.SignUpRequest) (*response_models.AuthResponse, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &db_models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         db_models.RoleUser,
		Language:     defaultLanguage,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeErr(err)
	}

	logging.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("account registered")
	return s.issueTokens(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req request_models.LoginRequest) (*response_models.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, storeErr(err)
	}
	if user == nil {
		_ = utils.ComparePasswords(dummyHash, req.Password)
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.PasswordHash, req.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*response_models.AuthResponse, error) {
	current, err := s.tokens.FindByHash(ctx, utils.HashToken(refreshToken))
	if err != nil {
		return nil, storeErr(err)
	}
	if current == nil || !current.Active(s.now()) {
		return nil, utils.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, current.UserID)
	if err != nil {
		return nil, storeErr(err)
	}
	if user == nil {
		return nil, utils.ErrInvalidToken
	}

	access, err := s.jwt.CreateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	raw, next, err := s.newRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Rotate(ctx, current.ID, next); err != nil {
		return nil, storeErr(err)
	}

	return s.authResponse(user, access, raw), nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return storeErr(s.tokens.RevokeByHash(ctx, utils.HashToken(refreshToken)))
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req request_models.ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return storeErr(err)
	}
	if user == nil {
		return utils.ErrAccountNotFound
	}
	if err := utils.ComparePasswords(user.PasswordHash, req.CurrentPassword); err != nil {
		return utils.ErrInvalidCredentials
	}
	if req.CurrentPassword == req.NewPassword {
		return utils.ErrSamePassword
	}

	if err := s.setPassword(ctx, user.ID, req.NewPassword); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("password changed")
	return nil
}

// ForgotPassword never reveals whether the email is registered.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return storeErr(err)
	}
	if user == nil {
		logging.Ctx(ctx).Debug().Msg("password reset requested for unknown email")
		return nil
	}

	code, err := utils.GenerateOtpCode(resetCodeLength)
	if err != nil {
		return err
	}
	s.resetCodes.Set(email, code, ResetCodeTTL)

	if err := s.mail.SendMailToResetPassword(ctx, email, code, ResetCodeTTL); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to send password reset mail")
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req request_models.ResetPasswordRequest) error {
	email := normalizeEmail(req.Email)
	if !s.resetCodes.Consume(email, req.Token) {
		return utils.ErrInvalidResetToken
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return storeErr(err)
	}
	if user == nil {
		return utils.ErrInvalidResetToken
	}

	if err := s.setPassword(ctx, user.ID, req.NewPassword); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("password reset")
	return nil
}

func (s *AuthService) CreateAdmin(ctx context.Context, req request_models.CreateAdminRequest) (*response_models.UserResponse, bool, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, storeErr(err)
	}
	if existing != nil {
		if err := s.users.UpdateRole(ctx, existing.ID, db_models.RoleAdmin); err != nil {
			return nil, false, storeErr(err)
		}
		existing.Role = db_models.RoleAdmin
		resp := toUserResponse(*existing)
		return &resp, false, nil
	}

	if !utils.StrongPassword(req.Password) {
		return nil, false, utils.ErrInvalidRequest
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, false, err
	}
	user := &db_models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         db_models.RoleAdmin,
		Language:     defaultLanguage,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, storeErr(err)
	}
	resp := toUserResponse(*user)
	return &resp, true, nil
}

// setPassword stores the new hash and signs the user out everywhere.
func (s *AuthService) setPassword(ctx context.Context, userID uuid.UUID, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return storeErr(err)
	}
	return storeErr(s.tokens.RevokeAllForUser(ctx, userID))
}

func (s *AuthService) issueTokens(ctx context.Context, user *db_models.User) (*response_models.AuthResponse, error) {
	access, err := s.jwt.CreateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	raw, token, err := s.newRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, storeErr(err)
	}
	return s.authResponse(user, access, raw), nil
}

func (s *AuthService) newRefreshToken(userID uuid.UUID) (string, *db_models.RefreshToken, error) {
	raw, err := utils.GenerateSecureToken(refreshTokenSize)
	if err != nil {
		return "", nil, err
	}
	return raw, &db_models.RefreshToken{
		UserID:    userID,
		TokenHash: utils.HashToken(raw),
		ExpiresAt: s.now().Add(s.refreshTTL),
	}, nil
}

func (s *AuthService) authResponse(user *db_models.User, access, refresh string) *response_models.AuthResponse {
	return &response_models.AuthResponse{
		User:         toUserResponse(*user),
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int64(s.jwt.TTL().Seconds()),
	}
}
