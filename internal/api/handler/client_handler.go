package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brightfold/portal-api/internal/core/ports"
)

// ClientHandler exposes admin-side client management, including the
// pro-tier toggle.
type ClientHandler struct {
	clients ports.ClientService
}

func NewClientHandler(clients ports.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

type createClientRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company,omitempty"`
	IsPro   bool   `json:"is_pro"`
}

type updateClientRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Company *string `json:"company,omitempty"`
	IsPro   *bool   `json:"is_pro,omitempty"`
}

func (h *ClientHandler) List(c echo.Context) error {
	clients, err := h.clients.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	client, err := h.clients.CreateClient(c.Request().Context(), ports.CreateClientInput{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		IsPro:   req.IsPro,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Update(c echo.Context) error {
	var req updateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	client, err := h.clients.UpdateClient(c.Request().Context(), c.Param("id"), ports.ClientPatch{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		IsPro:   req.IsPro,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c echo.Context) error {
	if err := h.clients.DeleteClient(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
