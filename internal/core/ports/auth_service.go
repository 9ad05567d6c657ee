package ports

import (
	"context"

	"github.com/bankabc/backoffice-api/internal/core/domain"
	"github.com/bankabc/backoffice-api/internal/core/token"
)

// AuthService orchestrates registration and login.
type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.AuthSession, error)
}

// TokenCodec signs claim sets into bearer strings and verifies them back.
// Implementations must be pure over inputs and configured keys: no store
// access during Encode or Decode.
type TokenCodec interface {
	Encode(claims token.Claims) (string, error)
	Decode(bearer string) (*token.Claims, error)
}

// DirectoryService exposes the back-office lookups that sit behind the
// authentication boundary.
type DirectoryService interface {
	EmployeeForUser(ctx context.Context, userID int64) (*domain.Employee, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	FindCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, upd domain.CustomerUpdate) (*domain.Customer, error)
}
