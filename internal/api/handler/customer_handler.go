package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bankabc/backoffice-api/internal/core/ports"
)

// CustomerHandler serves back-office customer profile maintenance.
type CustomerHandler struct {
	directory ports.DirectoryService
}

func NewCustomerHandler(directory ports.DirectoryService) *CustomerHandler {
	return &CustomerHandler{directory: directory}
}

// Get handles GET /v1/customers/:id.
//
// @Summary      Fetch a customer profile
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  customerResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid customer id")
	}

	customer, err := h.directory.FindCustomer(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// Update handles PUT /v1/customers/:id.
//
// @Summary      Update a customer profile
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Customer ID"
// @Param        body  body      customerUpdateRequest  true  "Profile fields"
// @Success      200   {object}  customerResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/customers/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid customer id")
	}

	var req customerUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	customer, err := h.directory.UpdateCustomer(c.Request().Context(), id, toCustomerUpdate(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCustomerResponse(customer))
}
