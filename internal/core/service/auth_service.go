package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bankabc/backoffice-api/internal/core/domain"
	"github.com/bankabc/backoffice-api/internal/core/ports"
	"github.com/bankabc/backoffice-api/internal/core/token"
)

const (
	defaultTokenTTL      = 15 * time.Minute
	defaultLookupTimeout = 2 * time.Second
	defaultRetries       = 2
	retryBaseDelay       = 100 * time.Millisecond
)

// AuthService implements registration and login. Login never creates state:
// trust is transferred from the login transaction to the self-contained
// bearer, so no session row exists to clean up.
type AuthService struct {
	creds         ports.CredentialStore
	roles         ports.RoleResolver
	employees     ports.EmployeeDirectory
	codec         ports.TokenCodec
	tokenTTL      time.Duration
	lookupTimeout time.Duration
	retries       int
	decoyHash     []byte
	now           func() time.Time
	log           zerolog.Logger
}

// AuthOption customises an AuthService at construction.
type AuthOption func(*AuthService)

// WithTokenTTL sets the issued bearer lifetime.
func WithTokenTTL(d time.Duration) AuthOption {
	return func(s *AuthService) {
		if d > 0 {
			s.tokenTTL = d
		}
	}
}

// WithLookupTimeout bounds each collaborator call.
func WithLookupTimeout(d time.Duration) AuthOption {
	return func(s *AuthService) {
		if d > 0 {
			s.lookupTimeout = d
		}
	}
}

// WithLookupRetries sets how many times a collaborator call is retried
// after a transient failure before the failure is surfaced.
func WithLookupRetries(n int) AuthOption {
	return func(s *AuthService) {
		if n >= 0 {
			s.retries = n
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(creds ports.CredentialStore, roles ports.RoleResolver, employees ports.EmployeeDirectory, codec ports.TokenCodec, log zerolog.Logger, opts ...AuthOption) *AuthService {
	// Hashing a throwaway password up front gives unknown-username logins
	// the same bcrypt cost as wrong-password logins, keeping the two
	// failure paths indistinguishable by timing.
	decoy, err := bcrypt.GenerateFromPassword([]byte("decoy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("auth: decoy hash generation failed: %v", err))
	}

	s := &AuthService{
		creds:         creds,
		roles:         roles,
		employees:     employees,
		codec:         codec,
		tokenTTL:      defaultTokenTTL,
		lookupTimeout: defaultLookupTimeout,
		retries:       defaultRetries,
		decoyHash:     decoy,
		now:           time.Now,
		log:           log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a credential row and assigns the initial customer role.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrBadCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.creds.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.roles.Assign(ctx, created.ID, domain.RoleCustomer); err != nil {
		return nil, fmt.Errorf("assign initial role: %w", err)
	}
	return created, nil
}

// Login verifies the presented credentials and issues a signed bearer bound
// to (user id, username, optional employee id, role set). Unknown usernames
// and wrong passwords both come back as domain.ErrBadCredentials; transient
// collaborator failures are retried with exponential backoff before
// surfacing as domain.ErrDirectoryUnavailable.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.AuthSession, error) {
	if username == "" || password == "" {
		return nil, domain.ErrBadCredentials
	}

	var user *domain.User
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.creds.FindByUsername(ctx, username)
		return err
	})
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		// Burn one bcrypt compare so this path costs the same as a
		// wrong-password rejection.
		_ = bcrypt.CompareHashAndPassword(s.decoyHash, []byte(password))
		return nil, domain.ErrBadCredentials
	case err != nil:
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrBadCredentials
	}

	var roles []string
	if err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		roles, err = s.roles.RolesFor(ctx, user.ID)
		return err
	}); err != nil {
		return nil, err
	}
	roles = normalizeRoles(roles)

	var empID domain.EmployeeID
	err = s.withRetry(ctx, func(ctx context.Context) error {
		emp, err := s.employees.FindByUserID(ctx, user.ID)
		if err != nil {
			return err
		}
		empID = domain.SomeEmployeeID(emp.ID)
		return nil
	})
	if err != nil && !errors.Is(err, domain.ErrEmployeeNotFound) {
		return nil, err
	}

	claims := token.NewClaims(user.Username, user.ID, empID, roles, s.now(), s.tokenTTL)
	bearer, err := s.codec.Encode(claims)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("token signing failed")
		return nil, err
	}

	return &domain.AuthSession{
		Token:      bearer,
		TokenType:  "Bearer",
		UserID:     user.ID,
		Username:   user.Username,
		EmployeeID: empID,
		Roles:      roles,
	}, nil
}

// withRetry runs fn under the per-call deadline, retrying transient
// directory failures with exponential backoff. Deadline expiry counts as a
// transient failure.
func (s *AuthService) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", domain.ErrDirectoryUnavailable, ctx.Err())
			case <-time.After(delay):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
		err := fn(callCtx)
		cancel()

		if err == nil {
			return nil
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			err = fmt.Errorf("%w: %v", domain.ErrDirectoryUnavailable, err)
		}
		if !errors.Is(err, domain.ErrDirectoryUnavailable) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// normalizeRoles sorts and de-duplicates so the token payload is a
// deterministic function of the principal's role state.
func normalizeRoles(roles []string) []string {
	if len(roles) == 0 {
		return []string{}
	}
	out := make([]string, len(roles))
	copy(out, roles)
	sort.Strings(out)
	n := 0
	for _, r := range out {
		if n == 0 || r != out[n-1] {
			out[n] = r
			n++
		}
	}
	return out[:n]
}
