package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bankabc/backoffice-api/internal/core/domain"
	"github.com/bankabc/backoffice-api/internal/core/ports"
)

// EmployeeHandler serves staff directory lookups for the back office.
type EmployeeHandler struct {
	directory ports.DirectoryService
}

func NewEmployeeHandler(directory ports.DirectoryService) *EmployeeHandler {
	return &EmployeeHandler{directory: directory}
}

// Me handles GET /v1/employees/me — the staff record of the authenticated
// principal.
//
// @Summary      Fetch own employee record
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Employee
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/employees/me [get]
func (h *EmployeeHandler) Me(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	// The token already carries the employee id; the directory lookup only
	// fills in the profile fields.
	if !principal.EmployeeID.Present {
		return domain.ErrEmployeeNotFound
	}

	employee, err := h.directory.EmployeeForUser(c.Request().Context(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employee)
}

// List handles GET /v1/employees.
//
// @Summary      List all employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Employee
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}

	employees, err := h.directory.ListEmployees(c.Request().Context())
	if err != nil {
		return err
	}
	if employees == nil {
		employees = []domain.Employee{}
	}
	return c.JSON(http.StatusOK, employees)
}
