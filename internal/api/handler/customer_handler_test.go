package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bankabc/backoffice-api/internal/api/middleware"
	"github.com/bankabc/backoffice-api/internal/core/domain"
)

type stubDirectoryService struct {
	employeeFn func(ctx context.Context, userID int64) (*domain.Employee, error)
	listFn     func(ctx context.Context) ([]domain.Employee, error)
	findFn     func(ctx context.Context, id int64) (*domain.Customer, error)
	updateFn   func(ctx context.Context, id int64, upd domain.CustomerUpdate) (*domain.Customer, error)
}

func (s *stubDirectoryService) EmployeeForUser(ctx context.Context, userID int64) (*domain.Employee, error) {
	return s.employeeFn(ctx, userID)
}

func (s *stubDirectoryService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.listFn(ctx)
}

func (s *stubDirectoryService) FindCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.findFn(ctx, id)
}

func (s *stubDirectoryService) UpdateCustomer(ctx context.Context, id int64, upd domain.CustomerUpdate) (*domain.Customer, error) {
	return s.updateFn(ctx, id, upd)
}

func withPrincipal(c echo.Context, p domain.Principal) echo.Context {
	c.Set(middleware.PrincipalKey, p)
	return c
}

func staffPrincipal() domain.Principal {
	return domain.Principal{
		UserID:     42,
		Username:   "alice",
		EmployeeID: domain.SomeEmployeeID(7),
		Roles:      []string{domain.RoleEmployee},
	}
}

func TestCustomerHandler_Update_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubDirectoryService{
		updateFn: func(ctx context.Context, id int64, upd domain.CustomerUpdate) (*domain.Customer, error) {
			if id != 1001 {
				t.Fatalf("id = %d, want 1001", id)
			}
			if upd.Name != "John Doe" || upd.Phone != "555-0101" {
				t.Fatalf("unexpected update: %+v", upd)
			}
			if got := upd.DateOfBirth; !got.Equal(time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("dob = %v", got)
			}
			return &domain.Customer{
				ID:          id,
				Name:        upd.Name,
				Email:       upd.Email,
				DateOfBirth: upd.DateOfBirth,
				Phone:       upd.Phone,
				Address:     upd.Address,
			}, nil
		},
	}
	handler := NewCustomerHandler(stub)

	body := `{"custName":"John Doe","email":"john@example.com","dob":"1990-04-12","phone":"555-0101","address":"1 Main St"}`
	c, rec := newTestContext(e, http.MethodPut, "/v1/customers/1001", body)
	c.SetParamNames("id")
	c.SetParamValues("1001")
	withPrincipal(c, staffPrincipal())

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["custName"] != "John Doe" || resp["dob"] != "1990-04-12" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestCustomerHandler_Update_InvalidDOB(t *testing.T) {
	e := newTestEcho()
	stub := &stubDirectoryService{
		updateFn: func(ctx context.Context, id int64, upd domain.CustomerUpdate) (*domain.Customer, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	handler := NewCustomerHandler(stub)

	body := `{"custName":"John","email":"john@example.com","dob":"12/04/1990","phone":"555","address":"x"}`
	c, _ := newTestContext(e, http.MethodPut, "/v1/customers/1001", body)
	c.SetParamNames("id")
	c.SetParamValues("1001")
	withPrincipal(c, staffPrincipal())

	err := handler.Update(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestCustomerHandler_Update_NotFoundPassedThrough(t *testing.T) {
	e := newTestEcho()
	stub := &stubDirectoryService{
		updateFn: func(ctx context.Context, id int64, upd domain.CustomerUpdate) (*domain.Customer, error) {
			return nil, domain.ErrCustomerNotFound
		},
	}
	handler := NewCustomerHandler(stub)

	body := `{"custName":"John","email":"john@example.com","dob":"1990-04-12","phone":"555","address":"x"}`
	c, _ := newTestContext(e, http.MethodPut, "/v1/customers/9999", body)
	c.SetParamNames("id")
	c.SetParamValues("9999")
	withPrincipal(c, staffPrincipal())

	if err := handler.Update(c); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCustomerHandler_Get_BadID(t *testing.T) {
	e := newTestEcho()
	handler := NewCustomerHandler(&stubDirectoryService{})

	c, _ := newTestContext(e, http.MethodGet, "/v1/customers/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	withPrincipal(c, staffPrincipal())

	err := handler.Get(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestCustomerHandler_MissingPrincipal(t *testing.T) {
	e := newTestEcho()
	handler := NewCustomerHandler(&stubDirectoryService{})

	c, _ := newTestContext(e, http.MethodGet, "/v1/customers/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := handler.Get(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
