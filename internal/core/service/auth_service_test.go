package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bankabc/backoffice-api/internal/core/domain"
	"github.com/bankabc/backoffice-api/internal/core/token"
)

type stubCredentialStore struct {
	users    map[string]*domain.User
	failWith error
	lookups  int
}

func newStubCredentialStore() *stubCredentialStore {
	return &stubCredentialStore{users: make(map[string]*domain.User)}
}

func (s *stubCredentialStore) addUser(t *testing.T, id int64, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	s.users[username] = &domain.User{ID: id, Username: username, PasswordHash: string(hash)}
}

func (s *stubCredentialStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	s.lookups++
	if s.failWith != nil {
		return nil, s.failWith
	}
	user, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *stubCredentialStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := s.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *user
	clone.ID = int64(len(s.users) + 1)
	s.users[user.Username] = &clone
	out := clone
	return &out, nil
}

type stubRoleResolver struct {
	roles    map[int64][]string
	assigned map[int64][]string
	failWith error
}

func newStubRoleResolver() *stubRoleResolver {
	return &stubRoleResolver{roles: make(map[int64][]string), assigned: make(map[int64][]string)}
}

func (s *stubRoleResolver) RolesFor(_ context.Context, userID int64) ([]string, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.roles[userID], nil
}

func (s *stubRoleResolver) Assign(_ context.Context, userID int64, role string) error {
	s.assigned[userID] = append(s.assigned[userID], role)
	return nil
}

type stubEmployeeDirectory struct {
	byUser   map[int64]*domain.Employee
	failures int
	failWith error
}

func newStubEmployeeDirectory() *stubEmployeeDirectory {
	return &stubEmployeeDirectory{byUser: make(map[int64]*domain.Employee)}
}

func (s *stubEmployeeDirectory) FindByUserID(_ context.Context, userID int64) (*domain.Employee, error) {
	if s.failures > 0 {
		s.failures--
		return nil, s.failWith
	}
	emp, ok := s.byUser[userID]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	clone := *emp
	return &clone, nil
}

func (s *stubEmployeeDirectory) List(_ context.Context) ([]domain.Employee, error) {
	out := make([]domain.Employee, 0, len(s.byUser))
	for _, emp := range s.byUser {
		out = append(out, *emp)
	}
	return out, nil
}

type failingCodec struct{}

func (failingCodec) Encode(token.Claims) (string, error) {
	return "", domain.ErrSigningFailure
}

func (failingCodec) Decode(string) (*token.Claims, error) {
	return nil, domain.ErrUnauthenticated
}

func newTestCodec(t *testing.T) *token.Codec {
	t.Helper()
	ring, err := token.NewHMACKeyring([]byte("test-secret"))
	if err != nil {
		t.Fatalf("keyring: %v", err)
	}
	return token.NewCodec(ring)
}

func newTestAuthService(t *testing.T, creds *stubCredentialStore, roles *stubRoleResolver, emps *stubEmployeeDirectory, opts ...AuthOption) *AuthService {
	t.Helper()
	return NewAuthService(creds, roles, emps, newTestCodec(t), zerolog.Nop(), opts...)
}

func TestAuthService_Login_Employee(t *testing.T) {
	creds := newStubCredentialStore()
	creds.addUser(t, 42, "alice", "pw")
	roles := newStubRoleResolver()
	roles.roles[42] = []string{"MANAGER", "STAFF"}
	emps := newStubEmployeeDirectory()
	emps.byUser[42] = &domain.Employee{ID: 7, UserID: 42, FirstName: "Alice"}

	svc := newTestAuthService(t, creds, roles, emps)

	session, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if session.TokenType != "Bearer" {
		t.Fatalf("type = %q, want Bearer", session.TokenType)
	}
	if session.UserID != 42 || session.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", session)
	}
	if !session.EmployeeID.Present || session.EmployeeID.ID != 7 {
		t.Fatalf("empId = %+v, want present 7", session.EmployeeID)
	}
	if len(session.Roles) != 2 || session.Roles[0] != "MANAGER" || session.Roles[1] != "STAFF" {
		t.Fatalf("unexpected roles: %v", session.Roles)
	}

	claims, err := newTestCodec(t).Decode(session.Token)
	if err != nil {
		t.Fatalf("decode issued token: %v", err)
	}
	if claims.UserID != 42 || claims.Subject != "alice" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if !claims.EmployeeID.Present || claims.EmployeeID.ID != 7 {
		t.Fatalf("claims eid = %+v, want present 7", claims.EmployeeID)
	}
}

func TestAuthService_Login_NonEmployee(t *testing.T) {
	creds := newStubCredentialStore()
	creds.addUser(t, 99, "carol", "s3cret")
	roles := newStubRoleResolver()
	roles.roles[99] = []string{"CUSTOMER"}
	emps := newStubEmployeeDirectory()

	svc := newTestAuthService(t, creds, roles, emps)

	session, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.EmployeeID.Present {
		t.Fatalf("expected absent employee id, got %+v", session.EmployeeID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	creds := newStubCredentialStore()
	creds.addUser(t, 1, "dave", "goodpass")
	svc := newTestAuthService(t, creds, newStubRoleResolver(), newStubEmployeeDirectory())

	session, err := svc.Login(context.Background(), "dave", "badpass")
	if !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
	if session != nil {
		t.Fatalf("no session expected, got %+v", session)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := newTestAuthService(t, newStubCredentialStore(), newStubRoleResolver(), newStubEmployeeDirectory())

	// Must be the same error kind as a wrong password, so the endpoint
	// cannot be used to probe for usernames.
	if _, err := svc.Login(context.Background(), "mallory", "whatever"); !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestAuthService_Login_RolesSortedAndDeduped(t *testing.T) {
	creds := newStubCredentialStore()
	creds.addUser(t, 5, "erin", "pw")
	roles := newStubRoleResolver()
	roles.roles[5] = []string{"ROLE_EMPLOYEE", "ROLE_ADMIN", "ROLE_EMPLOYEE"}
	svc := newTestAuthService(t, creds, roles, newStubEmployeeDirectory())

	session, err := svc.Login(context.Background(), "erin", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	want := []string{"ROLE_ADMIN", "ROLE_EMPLOYEE"}
	if len(session.Roles) != len(want) {
		t.Fatalf("roles = %v, want %v", session.Roles, want)
	}
	for i := range want {
		if session.Roles[i] != want[i] {
			t.Fatalf("roles = %v, want %v", session.Roles, want)
		}
	}
}

func TestAuthService_Login_RetriesTransientDirectoryFailure(t *testing.T) {
	creds := newStubCredentialStore()
	creds.addUser(t, 8, "frank", "pw")
	emps := newStubEmployeeDirectory()
	emps.failures = 1
	emps.failWith = domain.ErrDirectoryUnavailable
	emps.byUser[8] = &domain.Employee{ID: 2, UserID: 8}

	svc := newTestAuthService(t, creds, newStubRoleResolver(), emps, WithLookupRetries(2))

	session, err := svc.Login(context.Background(), "frank", "pw")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if !session.EmployeeID.Present || session.EmployeeID.ID != 2 {
		t.Fatalf("empId = %+v, want present 2", session.EmployeeID)
	}
}

func TestAuthService_Login_DirectoryUnavailableSurfaced(t *testing.T) {
	creds := newStubCredentialStore()
	creds.addUser(t, 8, "frank", "pw")
	emps := newStubEmployeeDirectory()
	emps.failures = 10
	emps.failWith = domain.ErrDirectoryUnavailable

	svc := newTestAuthService(t, creds, newStubRoleResolver(), emps, WithLookupRetries(1))

	if _, err := svc.Login(context.Background(), "frank", "pw"); !errors.Is(err, domain.ErrDirectoryUnavailable) {
		t.Fatalf("expected ErrDirectoryUnavailable, got %v", err)
	}
}

func TestAuthService_Login_SigningFailure(t *testing.T) {
	creds := newStubCredentialStore()
	creds.addUser(t, 3, "grace", "pw")

	svc := NewAuthService(creds, newStubRoleResolver(), newStubEmployeeDirectory(), failingCodec{}, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "grace", "pw"); !errors.Is(err, domain.ErrSigningFailure) {
		t.Fatalf("expected ErrSigningFailure, got %v", err)
	}
}

func TestAuthService_Login_EmptyInput(t *testing.T) {
	svc := newTestAuthService(t, newStubCredentialStore(), newStubRoleResolver(), newStubEmployeeDirectory())

	if _, err := svc.Login(context.Background(), "", "pw"); !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for empty username, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", ""); !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for empty password, got %v", err)
	}
}

func TestAuthService_Register_AssignsCustomerRole(t *testing.T) {
	creds := newStubCredentialStore()
	roles := newStubRoleResolver()
	svc := newTestAuthService(t, creds, roles, newStubEmployeeDirectory())

	user, err := svc.Register(context.Background(), "henry", "pass123", "henry@example.com")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	got := roles.assigned[user.ID]
	if len(got) != 1 || got[0] != domain.RoleCustomer {
		t.Fatalf("expected initial %s assignment, got %v", domain.RoleCustomer, got)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	creds := newStubCredentialStore()
	svc := newTestAuthService(t, creds, newStubRoleResolver(), newStubEmployeeDirectory())

	if _, err := svc.Register(context.Background(), "iris", "pass123", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "iris", "other", ""); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_TokenExpiryHonorsTTL(t *testing.T) {
	creds := newStubCredentialStore()
	creds.addUser(t, 42, "alice", "pw")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	svc := newTestAuthService(t, creds, newStubRoleResolver(), newStubEmployeeDirectory(),
		WithTokenTTL(30*time.Minute),
		WithClock(func() time.Time { return now }),
	)

	session, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	ring, _ := token.NewHMACKeyring([]byte("test-secret"))
	codec := token.NewCodec(ring, token.WithClock(func() time.Time { return now }))
	claims, err := codec.Decode(session.Token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := claims.ExpiresAt.Time; !got.Equal(now.Add(30 * time.Minute)) {
		t.Fatalf("exp = %v, want %v", got, now.Add(30*time.Minute))
	}
	if got := claims.IssuedAt.Time; !got.Equal(now) {
		t.Fatalf("iat = %v, want %v", got, now)
	}
}
