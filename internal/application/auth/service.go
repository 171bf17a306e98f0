package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/carmarket-api/internal/domain"
	"github.com/carmarket-api/internal/pkg/id"
	"github.com/carmarket-api/internal/pkg/mask"
	pkgtoken "github.com/carmarket-api/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

type RequestCodeRequest struct {
	Phone string `json:"phone_number"`
	Email string `json:"email" validate:"omitempty,email"`
}

type VerifyCodeRequest struct {
	OTPID string `json:"otp_id" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RequestCodeResult struct {
	OTPID     string    `json:"otp_id"`
	Identity  string    `json:"identity"` // masked
	Channel   string    `json:"channel"`
	ExpiresAt time.Time `json:"expires_at"`

	// Code is only populated in development mode.
	Code string `json:"code,omitempty"`
}

type AuthResult struct {
	Bearer       string
	RefreshToken string
	Session      *domain.Session
	IsNewUser    bool
}

type AdminLoginResult struct {
	Bearer string
	Admin  *domain.AdminUser
}

// Store interfaces are satisfied by the dynamo repos.

type OTPStore interface {
	Put(ctx context.Context, t *domain.OTPToken) error
	Get(ctx context.Context, tokenID string) (*domain.OTPToken, error)
	DeleteByIdentity(ctx context.Context, identity string) error
	IncrementAttempts(ctx context.Context, tokenID string) (int, error)
	MarkUsed(ctx context.Context, tokenID string) error
}

type UserStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, userID string) error
}

type SessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error
	Disable(ctx context.Context, sessionID string) error
}

type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	Update(ctx context.Context, adminID string, updates map[string]interface{}) error
}

type Mailer interface {
	SendEmail(to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type TokenSigner interface {
	Sign(userID, role, sessionID string) (string, error)
	SignAdmin(adminID, role string) (string, error)
}

type Service interface {
	RequestCode(ctx context.Context, req RequestCodeRequest, clientIP, userAgent string) (*RequestCodeResult, error)
	VerifyCode(ctx context.Context, req VerifyCodeRequest, clientIP string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (bearer, newRefreshToken string, err error)
	Logout(ctx context.Context, sessionID string) error
	AdminLogin(ctx context.Context, req AdminLoginRequest) (*AdminLoginResult, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type ServiceDeps struct {
	OTPRepo         OTPStore
	UserRepo        UserStore
	SessionRepo     SessionStore
	AdminRepo       AdminStore
	Mailer          Mailer
	SMSSender       SMSSender
	JWTProvider     TokenSigner
	OTPExpiry       time.Duration
	OTPMaxAttempts  int
	RefreshTokenDur time.Duration

	// DebugCodes echoes raw OTP codes in responses (development only).
	DebugCodes bool
}

type service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	if deps.OTPMaxAttempts == 0 {
		deps.OTPMaxAttempts = domain.OTPMaxAttempts
	}
	return &service{deps: deps}
}

func (s *service) RequestCode(ctx context.Context, req RequestCodeRequest, clientIP, userAgent string) (*RequestCodeResult, error) {
	identity, channel, err := resolveIdentity(req.Phone, req.Email)
	if err != nil {
		return nil, err
	}
	switch channel {
	case domain.OTPChannelSMS:
		if s.deps.SMSSender == nil {
			return nil, fmt.Errorf("sms provider not configured: %w", domain.ErrConfiguration)
		}
	case domain.OTPChannelEmail:
		if s.deps.Mailer == nil {
			return nil, fmt.Errorf("email provider not configured: %w", domain.ErrConfiguration)
		}
	}

	// One outstanding code per identity.
	if err := s.deps.OTPRepo.DeleteByIdentity(ctx, identity); err != nil {
		return nil, err
	}

	code, err := pkgtoken.NewOTPCode(domain.OTPLength)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	expiresAt := now.Add(s.deps.OTPExpiry)
	purpose := OTPPurposeFor(ctx, s.deps.UserRepo, identity, channel)
	t := &domain.OTPToken{
		TokenID:   id.New(),
		Identity:  identity,
		Channel:   channel,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: expiresAt.Unix(),
		IPAddress: clientIP,
		UserAgent: userAgent,
		CreatedAt: now,
	}
	if err := s.deps.OTPRepo.Put(ctx, t); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(s.deps.OTPExpiry.Minutes()))
	if channel == domain.OTPChannelSMS {
		err = s.deps.SMSSender.SendSMS(ctx, identity, msg)
	} else {
		err = s.deps.Mailer.SendEmail(identity, "Your verification code", msg)
	}
	if err != nil {
		return nil, fmt.Errorf("send verification code: %v: %w", err, domain.ErrConfiguration)
	}

	result := &RequestCodeResult{
		OTPID:     t.TokenID,
		Identity:  mask.Identity(identity),
		Channel:   channel,
		ExpiresAt: expiresAt,
	}
	if s.deps.DebugCodes {
		result.Code = code
	}
	return result, nil
}

// OTPPurposeFor reports whether the identity belongs to an existing account.
// Purpose is recorded for auditing only; the verify flow is identical.
func OTPPurposeFor(ctx context.Context, users UserStore, identity, channel string) string {
	var err error
	if channel == domain.OTPChannelSMS {
		_, err = users.GetByPhone(ctx, identity)
	} else {
		_, err = users.GetByEmail(ctx, identity)
	}
	if err != nil {
		return domain.OTPPurposeRegistration
	}
	return domain.OTPPurposeLogin
}

func (s *service) VerifyCode(ctx context.Context, req VerifyCodeRequest, clientIP string) (*AuthResult, error) {
	t, err := s.deps.OTPRepo.Get(ctx, req.OTPID)
	if err != nil {
		return nil, fmt.Errorf("no verification code requested: %w", domain.ErrNotFound)
	}
	if t.Used {
		return nil, fmt.Errorf("code already used: %w", domain.ErrOTPUsed)
	}

	// Count the attempt before judging it so racing requests each burn a slot.
	attempts, err := s.deps.OTPRepo.IncrementAttempts(ctx, t.TokenID)
	if err != nil {
		return nil, err
	}
	if attempts > s.deps.OTPMaxAttempts {
		return nil, fmt.Errorf("too many attempts: %w", domain.ErrOTPAttemptsExceeded)
	}
	if t.ExpiresAt < time.Now().Unix() {
		return nil, fmt.Errorf("code expired: %w", domain.ErrOTPExpired)
	}
	if t.Code != req.Code {
		return nil, fmt.Errorf("incorrect code: %w", domain.ErrOTPMismatch)
	}
	if err := s.deps.OTPRepo.MarkUsed(ctx, t.TokenID); err != nil {
		return nil, err
	}

	u, isNew, err := s.getOrCreateUser(ctx, t.Identity, t.Channel, clientIP)
	if err != nil {
		return nil, err
	}

	refreshToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID:        id.New(),
		UserID:           u.UserID,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(s.deps.RefreshTokenDur).Unix(),
		IPAddress:        clientIP,
		Enable:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.deps.SessionRepo.Put(ctx, sess); err != nil {
		return nil, err
	}
	if s.deps.JWTProvider == nil {
		return nil, fmt.Errorf("token signing is not configured: %w", domain.ErrConfiguration)
	}
	bearer, err := s.deps.JWTProvider.Sign(u.UserID, "user", sess.SessionID)
	if err != nil {
		return nil, err
	}
	sess.User = u
	return &AuthResult{Bearer: bearer, RefreshToken: refreshToken, Session: sess, IsNewUser: isNew}, nil
}

func (s *service) getOrCreateUser(ctx context.Context, identity, channel, clientIP string) (*domain.User, bool, error) {
	var u *domain.User
	var err error
	if channel == domain.OTPChannelSMS {
		u, err = s.deps.UserRepo.GetByPhone(ctx, identity)
	} else {
		u, err = s.deps.UserRepo.GetByEmail(ctx, identity)
	}
	if err == nil {
		if u.Enable == 0 {
			return nil, false, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
		}
		if err := s.deps.UserRepo.Update(ctx, u.UserID, map[string]interface{}{
			"last_login_ip": clientIP,
			"is_verified":   true,
		}); err != nil {
			slog.Warn("failed to stamp last login", "user_id", u.UserID, "err", err)
		}
		return u, false, nil
	}

	now := time.Now().UTC()
	u = &domain.User{
		UserID:      id.New(),
		IsVerified:  true,
		EmailAlerts: true,
		SMSAlerts:   true,
		Enable:      1,
		LastLoginIP: clientIP,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if channel == domain.OTPChannelSMS {
		u.Phone = identity
	} else {
		u.Email = identity
	}
	if err := s.deps.UserRepo.Put(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	sess, err := s.deps.SessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("invalid refresh token: %w", domain.ErrUnauthorized)
	}
	if !sess.Enable {
		return "", "", fmt.Errorf("session revoked: %w", domain.ErrUnauthorized)
	}
	if sess.RefreshExpiresAt < time.Now().Unix() {
		return "", "", fmt.Errorf("refresh token expired: %w", domain.ErrUnauthorized)
	}
	newToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return "", "", err
	}
	newExpiry := time.Now().Add(s.deps.RefreshTokenDur).Unix()
	if err := s.deps.SessionRepo.RotateRefreshToken(ctx, sess.SessionID, newToken, newExpiry); err != nil {
		return "", "", err
	}
	if s.deps.JWTProvider == nil {
		return "", "", fmt.Errorf("token signing is not configured: %w", domain.ErrConfiguration)
	}
	bearer, err := s.deps.JWTProvider.Sign(sess.UserID, "user", sess.SessionID)
	if err != nil {
		return "", "", err
	}
	return bearer, newToken, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.deps.SessionRepo.Disable(ctx, sessionID)
}

func (s *service) AdminLogin(ctx context.Context, req AdminLoginRequest) (*AdminLoginResult, error) {
	a, err := s.deps.AdminRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if !a.IsActive {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err := s.deps.AdminRepo.Update(ctx, a.AdminID, map[string]interface{}{
		"last_login": time.Now().UTC(),
	}); err != nil {
		slog.Warn("failed to stamp admin last login", "admin_id", a.AdminID, "err", err)
	}
	if s.deps.JWTProvider == nil {
		return nil, fmt.Errorf("token signing is not configured: %w", domain.ErrConfiguration)
	}
	bearer, err := s.deps.JWTProvider.SignAdmin(a.AdminID, a.Role)
	if err != nil {
		return nil, err
	}
	return &AdminLoginResult{Bearer: bearer, Admin: a}, nil
}

func (s *service) Me(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.deps.UserRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Enable == 0 {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.IsSeller != nil {
		updates["is_seller"] = *req.IsSeller
	}
	if req.EmailAlerts != nil {
		updates["email_notifications"] = *req.EmailAlerts
	}
	if req.SMSAlerts != nil {
		updates["sms_notifications"] = *req.SMSAlerts
	}
	if req.PushAlerts != nil {
		updates["push_notifications"] = *req.PushAlerts
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.deps.UserRepo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.deps.UserRepo.Get(ctx, userID)
}

func (s *service) DeleteAccount(ctx context.Context, userID string) error {
	return s.deps.UserRepo.SoftDelete(ctx, userID)
}

func resolveIdentity(phone, email string) (identity, channel string, err error) {
	switch {
	case phone != "" && email != "":
		return "", "", fmt.Errorf("provide phone_number or email, not both: %w", domain.ErrBadRequest)
	case phone != "":
		return phone, domain.OTPChannelSMS, nil
	case email != "":
		return email, domain.OTPChannelEmail, nil
	default:
		return "", "", fmt.Errorf("phone_number or email required: %w", domain.ErrBadRequest)
	}
}
