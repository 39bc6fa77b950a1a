package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byID    map[uuid.UUID]user.User
	byEmail map[string]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[uuid.UUID]user.User{},
		byEmail: map[string]user.User{},
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, u user.User) error {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserRepo) UpdateProfile(context.Context, uuid.UUID, user.UpdateProfileFields) error {
	return nil
}

type memoryOTPStore struct {
	values map[string]string
}

func newMemoryOTPStore() *memoryOTPStore {
	return &memoryOTPStore{values: map[string]string{}}
}

func (m *memoryOTPStore) SetValue(_ context.Context, key, value string, _ time.Duration) error {
	m.values[key] = value
	return nil
}

func (m *memoryOTPStore) GetValue(_ context.Context, key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryOTPStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) Send(_ context.Context, to, _, _ string) error {
	m.sent = append(m.sent, to)
	return nil
}

func registerVerified(t *testing.T, svc *Service, otps *memoryOTPStore, email string) user.User {
	t.Helper()
	if err := svc.RequestOTP(context.Background(), email); err != nil {
		t.Fatalf("request otp: %v", err)
	}
	code := otps.values[otpKey(normalizeEmail(email))]
	if err := svc.VerifyOTP(context.Background(), email, code); err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	u, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    email,
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return u
}

func TestRegister_HappyPath(t *testing.T) {
	users := newFakeUserRepo()
	otps := newMemoryOTPStore()
	mail := &recordingMailer{}
	svc := NewService(users, otps, mail)

	u := registerVerified(t, svc, otps, "Alice@Example.com")

	if u.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.PasswordHash != "" {
		t.Fatalf("expected password hash stripped from result")
	}
	if len(mail.sent) != 1 || mail.sent[0] != "alice@example.com" {
		t.Fatalf("expected one OTP mail, got %v", mail.sent)
	}

	stored := users.byEmail["alice@example.com"]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestRegister_RequiresVerifiedOTP(t *testing.T) {
	svc := NewService(newFakeUserRepo(), newMemoryOTPStore(), &recordingMailer{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	if !errors.Is(err, ErrOTPNotVerified) {
		t.Fatalf("expected ErrOTPNotVerified, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	otps := newMemoryOTPStore()
	svc := NewService(users, otps, &recordingMailer{})

	registerVerified(t, svc, otps, "alice@example.com")

	if err := svc.RequestOTP(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("request otp: %v", err)
	}
	code := otps.values[otpKey("alice@example.com")]
	if err := svc.VerifyOTP(context.Background(), "alice@example.com", code); err != nil {
		t.Fatalf("verify otp: %v", err)
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice Again",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	otps := newMemoryOTPStore()
	svc := NewService(newFakeUserRepo(), otps, &recordingMailer{})

	if err := svc.RequestOTP(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("request otp: %v", err)
	}

	err := svc.VerifyOTP(context.Background(), "alice@example.com", "000000x")
	if !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	users := newFakeUserRepo()
	otps := newMemoryOTPStore()
	svc := NewService(users, otps, &recordingMailer{})

	registerVerified(t, svc, otps, "alice@example.com")

	u, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.Name != "Alice" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.PasswordHash != "" {
		t.Fatalf("expected password hash stripped")
	}

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "wrong password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
