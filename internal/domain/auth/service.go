package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"hrkpi/internal/domain/apperror"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Notifier interface {
	RoleChanged(ctx context.Context, userID, role string) error
	UserRegistered(ctx context.Context, name, email string) error
}

type AuditRecorder interface {
	Record(ctx context.Context, actorID, action, entityType, entityID string, before, after any) error
}

type Service struct {
	Store     StoreAPI
	Secret    string
	TokenTTL  time.Duration
	Mailer    Mailer
	EmailFrom string
	Notifier  Notifier
	Audit     AuditRecorder
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	return &Service{Store: store, Secret: secret, TokenTTL: ttl}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	fields := map[string][]string{}
	if len(input.Name) < 2 {
		fields["name"] = append(fields["name"], "Name must be at least 2 characters")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil || input.Email == "" {
		fields["email"] = append(fields["email"], "Email must be a valid email address")
	}
	if len(input.Password) < minPasswordLength {
		fields["password"] = append(fields["password"], fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if len(fields) > 0 {
		return User{}, apperror.Validation(fields)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return User{}, apperror.Internal(err)
	}
	user, err := s.Store.CreateUser(ctx, input.Name, input.Email, hash, RoleUser)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return User{}, apperror.ConflictField("email_taken", "email", "Email already registered")
		}
		return User{}, apperror.Internal(err)
	}

	if s.Notifier != nil {
		if err := s.Notifier.UserRegistered(ctx, user.Name, user.Email); err != nil {
			slog.Warn("user registered notification failed", "userId", user.ID, "err", err)
		}
	}

	if s.Mailer != nil {
		subject := "Welcome to the KPI performance portal"
		body := fmt.Sprintf("Hello %s,\n\nYour account has been created. You can now sign in with %s.\n", user.Name, user.Email)
		if err := s.Mailer.Send(ctx, s.EmailFrom, user.Email, subject, body); err != nil {
			return user, apperror.Unavailable("email_delivery_failed", "account created but the welcome email could not be sent", err)
		}
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	creds, err := s.Store.FindCredentialsByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoginResult{}, apperror.Unauthorized("invalid email or password")
		}
		return LoginResult{}, apperror.Internal(err)
	}
	if err := CheckPassword(creds.PasswordHash, password); err != nil {
		return LoginResult{}, apperror.Unauthorized("invalid email or password")
	}

	token, err := GenerateToken(s.Secret, Claims{UserID: creds.ID, Role: creds.Role}, s.TokenTTL)
	if err != nil {
		return LoginResult{}, apperror.Internal(err)
	}
	return LoginResult{Token: token, ExpiresAt: time.Now().Add(s.TokenTTL), User: creds.User}, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (User, error) {
	user, err := s.Store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperror.NotFound("user_not_found", "User not found")
		}
		return User{}, apperror.Internal(err)
	}
	return user, nil
}

func (s *Service) UpdateRole(ctx context.Context, actorID, userID, role string) (User, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if !ValidRole(role) {
		return User{}, apperror.FieldInvalid("role", "Role must be ADMIN or USER")
	}

	before, err := s.Profile(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if before.Role == role {
		return before, nil
	}

	updated, err := s.Store.UpdateRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperror.NotFound("user_not_found", "User not found")
		}
		return User{}, apperror.Internal(err)
	}

	if s.Notifier != nil {
		if err := s.Notifier.RoleChanged(ctx, updated.ID, updated.Role); err != nil {
			slog.Warn("role change notification failed", "userId", updated.ID, "err", err)
		}
	}
	if s.Audit != nil {
		if err := s.Audit.Record(ctx, actorID, "user.role.update", "user", updated.ID, map[string]string{"role": before.Role}, map[string]string{"role": updated.Role}); err != nil {
			slog.Warn("audit role change failed", "userId", updated.ID, "err", err)
		}
	}
	return updated, nil
}

func (s *Service) ListUsers(ctx context.Context, filter UserFilter) ([]User, int, error) {
	users, total, err := s.Store.ListUsers(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return users, total, nil
}

// HasPermission resolves the caller's current role from storage so a role
// change applies to tokens issued before it.
func (s *Service) HasPermission(ctx context.Context, userID, permission string) (bool, error) {
	role, err := s.Store.UserRole(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return RoleHasPermission(role, permission), nil
}
