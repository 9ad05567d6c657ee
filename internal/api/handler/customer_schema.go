package handler

import (
	"time"

	"github.com/bankabc/backoffice-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type customerUpdateRequest struct {
	CustName string `json:"custName" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	DOB      string `json:"dob"      validate:"required,datetime=2006-01-02"`
	Phone    string `json:"phone"    validate:"required"`
	Address  string `json:"address"  validate:"required"`
}

type customerResponse struct {
	ID       int64  `json:"id"`
	CustName string `json:"custName"`
	Email    string `json:"email"`
	DOB      string `json:"dob"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func toCustomerUpdate(req customerUpdateRequest) domain.CustomerUpdate {
	// Validated upstream with datetime=2006-01-02, so the parse cannot fail.
	dob, _ := time.Parse("2006-01-02", req.DOB)
	return domain.CustomerUpdate{
		Name:        req.CustName,
		Email:       req.Email,
		DateOfBirth: dob,
		Phone:       req.Phone,
		Address:     req.Address,
	}
}

func toCustomerResponse(c *domain.Customer) customerResponse {
	return customerResponse{
		ID:       c.ID,
		CustName: c.Name,
		Email:    c.Email,
		DOB:      c.DateOfBirth.Format("2006-01-02"),
		Phone:    c.Phone,
		Address:  c.Address,
	}
}
