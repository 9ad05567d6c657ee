package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bankabc/backoffice-api/internal/core/domain"
	"github.com/bankabc/backoffice-api/internal/core/ports"
)

// DirectoryService serves the back-office lookups behind the auth boundary:
// employee records for authenticated staff and customer profile updates.
type DirectoryService struct {
	employees ports.EmployeeDirectory
	customers ports.CustomerRepository
	logger    zerolog.Logger
}

func NewDirectoryService(employees ports.EmployeeDirectory, customers ports.CustomerRepository, logger zerolog.Logger) *DirectoryService {
	return &DirectoryService{employees: employees, customers: customers, logger: logger}
}

// EmployeeForUser returns the staff record referencing userID, or
// domain.ErrEmployeeNotFound when the user is not staff.
func (s *DirectoryService) EmployeeForUser(ctx context.Context, userID int64) (*domain.Employee, error) {
	return s.employees.FindByUserID(ctx, userID)
}

// ListEmployees returns all staff records.
func (s *DirectoryService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.employees.List(ctx)
}

// FindCustomer returns the customer profile with the given id.
func (s *DirectoryService) FindCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// UpdateCustomer applies the mutable profile fields to a customer row and
// returns the updated profile.
func (s *DirectoryService) UpdateCustomer(ctx context.Context, id int64, upd domain.CustomerUpdate) (*domain.Customer, error) {
	customer, err := s.customers.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("customer_id", id).Msg("customer profile updated")
	return customer, nil
}
