package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skill-swap/internal/domain/user"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidOTP             = errors.New("invalid or expired OTP")
	ErrOTPNotVerified         = errors.New("OTP not verified")
	ErrInternal               = errors.New("internal error")
)

const otpTTL = 10 * time.Minute

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// OTPStore keeps short-lived verification codes; backed by Redis in
// production.
type OTPStore interface {
	SetValue(ctx context.Context, key, value string, ttl time.Duration) error
	GetValue(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, keys ...string) error
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Service struct {
	users  user.Repository
	otps   OTPStore
	mailer Mailer
}

func NewService(users user.Repository, otps OTPStore, mailer Mailer) *Service {
	return &Service{users: users, otps: otps, mailer: mailer}
}

func (s *Service) RequestOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrInvalidInput
	}

	code, err := generateOTP()
	if err != nil {
		return ErrInternal
	}

	if s.mailer != nil {
		body := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
		if err := s.mailer.Send(ctx, email, "Your verification code", body); err != nil {
			return ErrInternal
		}
	}

	if err := s.otps.SetValue(ctx, otpKey(email), code, otpTTL); err != nil {
		return ErrInternal
	}
	return nil
}

func (s *Service) VerifyOTP(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(code) == "" {
		return ErrInvalidInput
	}

	stored, ok, err := s.otps.GetValue(ctx, otpKey(email))
	if err != nil {
		return ErrInternal
	}
	if !ok || stored != strings.TrimSpace(code) {
		return ErrInvalidOTP
	}

	if err := s.otps.SetValue(ctx, otpVerifiedKey(email), "true", otpTTL); err != nil {
		return ErrInternal
	}
	_ = s.otps.Delete(ctx, otpKey(email))
	return nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" {
		return user.User{}, ErrInvalidInput
	}
	if !isValidPassword(in.Password) {
		return user.User{}, ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return user.User{}, ErrInternal
	}
	if exists {
		return user.User{}, ErrEmailAlreadyRegistered
	}

	verified, ok, err := s.otps.GetValue(ctx, otpVerifiedKey(email))
	if err != nil {
		return user.User{}, ErrInternal
	}
	if !ok || verified != "true" {
		return user.User{}, ErrOTPNotVerified
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, ErrInternal
	}

	u := user.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := s.users.CreateUser(ctx, u); err != nil {
		exists, exErr := s.users.ExistsByEmail(ctx, email)
		if exErr == nil && exists {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		return user.User{}, ErrInternal
	}

	_ = s.otps.Delete(ctx, otpVerifiedKey(email))

	created, err := s.users.GetUserByID(ctx, u.ID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return sanitizeUser(created), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	return sanitizeUser(u), nil
}

func otpKey(email string) string {
	return "otp:" + email
}

func otpVerifiedKey(email string) string {
	return "otp-verified:" + email
}

func generateOTP() (string, error) {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	digits := make([]byte, 6)
	for i, v := range b {
		digits[i] = '0' + v%10
	}
	return string(digits), nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}

func isValidPassword(pw string) bool {
	return len(strings.TrimSpace(pw)) >= 8
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
