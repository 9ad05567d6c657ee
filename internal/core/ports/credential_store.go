package ports

import (
	"context"

	"github.com/bankabc/backoffice-api/internal/core/domain"
)

// CredentialStore is the authoritative mapping from username to a verified
// password hash and user id. Lookups are case-sensitive.
type CredentialStore interface {
	// FindByUsername returns domain.ErrUserNotFound when no credential row
	// matches. The caller is responsible for collapsing that into
	// domain.ErrBadCredentials before it leaves the auth boundary.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// RoleResolver maps a user id to its role names. The returned list is
// sorted and free of duplicates so token payloads stay byte-stable across
// re-issuance for the same principal state.
type RoleResolver interface {
	RolesFor(ctx context.Context, userID int64) ([]string, error)
	Assign(ctx context.Context, userID int64, role string) error
}

// EmployeeDirectory maps a user id to its optional staff record.
type EmployeeDirectory interface {
	// FindByUserID returns domain.ErrEmployeeNotFound when the user has no
	// staff record. Absence is a valid outcome, not a login failure.
	FindByUserID(ctx context.Context, userID int64) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
}

// CustomerRepository persists customer profiles maintained by back-office
// staff.
type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Customer, error)
	Update(ctx context.Context, id int64, upd domain.CustomerUpdate) (*domain.Customer, error)
}
