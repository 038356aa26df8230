package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"hrkpi/internal/domain/apperror"
)

type fakeStore struct {
	users  map[string]Credentials
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]Credentials{}}
}

func (f *fakeStore) CreateUser(_ context.Context, name, email, passwordHash, role string) (User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return User{}, ErrEmailTaken
		}
	}
	f.nextID++
	id := "user-" + string(rune('0'+f.nextID))
	u := Credentials{User: User{ID: id, Name: name, Email: email, Role: role}, PasswordHash: passwordHash}
	f.users[id] = u
	return u.User, nil
}

func (f *fakeStore) FindCredentialsByEmail(_ context.Context, email string) (Credentials, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return Credentials{}, ErrNotFound
}

func (f *fakeStore) GetUser(_ context.Context, id string) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u.User, nil
}

func (f *fakeStore) UserRole(ctx context.Context, id string) (string, error) {
	u, err := f.GetUser(ctx, id)
	return u.Role, err
}

func (f *fakeStore) UpdateRole(_ context.Context, id, role string) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	u.Role = role
	f.users[id] = u
	return u.User, nil
}

func (f *fakeStore) ListUsers(context.Context, UserFilter) ([]User, int, error) {
	var out []User
	for _, u := range f.users {
		out = append(out, u.User)
	}
	return out, len(out), nil
}

type failingMailer struct{}

func (failingMailer) Send(context.Context, string, string, string, string) error {
	return errors.New("smtp down")
}

type recordingNotifier struct {
	roleChanges []string
	registered  []string
}

func (r *recordingNotifier) RoleChanged(_ context.Context, userID, role string) error {
	r.roleChanges = append(r.roleChanges, userID+":"+role)
	return nil
}

func (r *recordingNotifier) UserRegistered(_ context.Context, name, _ string) error {
	r.registered = append(r.registered, name)
	return nil
}

func TestRegisterValidatesFields(t *testing.T) {
	svc := NewService(newFakeStore(), "secret", time.Hour)
	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "bad", Password: "123"})
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperror.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"name", "email", "password"} {
		if len(appErr.Fields[field]) == 0 {
			t.Fatalf("expected message for %s, got %+v", field, appErr.Fields)
		}
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc := NewService(newFakeStore(), "secret", time.Hour)
	input := RegisterInput{Name: "Dea", Email: "dea@example.com", Password: "secret1"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), input)
	if !apperror.IsKind(err, apperror.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterEmailFailureKeepsUser(t *testing.T) {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	svc := NewService(store, "secret", time.Hour)
	svc.Mailer = failingMailer{}
	svc.Notifier = notifier

	user, err := svc.Register(context.Background(), RegisterInput{Name: "Dea", Email: "Dea@Example.com", Password: "secret1"})
	if !apperror.IsKind(err, apperror.KindUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected committed user to be returned")
	}
	if _, err := store.FindCredentialsByEmail(context.Background(), "dea@example.com"); err != nil {
		t.Fatalf("expected user to remain stored: %v", err)
	}
	if len(notifier.registered) != 1 {
		t.Fatalf("expected admins to be notified once, got %d", len(notifier.registered))
	}
}

func TestLoginIssuesToken(t *testing.T) {
	svc := NewService(newFakeStore(), "secret", time.Hour)
	if _, err := svc.Register(context.Background(), RegisterInput{Name: "Dea", Email: "dea@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(context.Background(), "dea@example.com", "wrong-pass"); !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	result, err := svc.Login(context.Background(), "dea@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := ParseToken("secret", result.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != result.User.ID || claims.Role != RoleUser {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestUpdateRoleNotifiesAndReloadsPermissions(t *testing.T) {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	svc := NewService(store, "secret", time.Hour)
	svc.Notifier = notifier

	user, err := svc.Register(context.Background(), RegisterInput{Name: "Dea", Email: "dea@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.UpdateRole(context.Background(), "admin", user.ID, "OWNER"); !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.UpdateRole(context.Background(), "admin", "missing", RoleAdmin); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	updated, err := svc.UpdateRole(context.Background(), "admin", user.ID, "admin")
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != RoleAdmin {
		t.Fatalf("expected ADMIN, got %s", updated.Role)
	}
	if len(notifier.roleChanges) != 1 || notifier.roleChanges[0] != user.ID+":"+RoleAdmin {
		t.Fatalf("unexpected notifications %v", notifier.roleChanges)
	}

	allowed, err := svc.HasPermission(context.Background(), user.ID, PermAssessmentsWrite)
	if err != nil || !allowed {
		t.Fatalf("expected promoted user to write assessments, got %v %v", allowed, err)
	}
}
