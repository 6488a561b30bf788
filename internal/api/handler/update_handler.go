package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brightfold/portal-api/internal/core/ports"
)

// UpdateHandler exposes project updates: clients read their own feed,
// admins and developers post against projects.
type UpdateHandler struct {
	updates ports.UpdateService
}

func NewUpdateHandler(updates ports.UpdateService) *UpdateHandler {
	return &UpdateHandler{updates: updates}
}

type postUpdateRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body,omitempty"`
}

// List returns the caller's tenant-scoped update feed.
func (h *UpdateHandler) List(c echo.Context) error {
	scope, err := ctxScope(c)
	if err != nil {
		return err
	}
	updates, err := h.updates.ListUpdates(c.Request().Context(), scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updates)
}

// ListByProject returns one project's updates, scope-checked against
// the owning tenant.
func (h *UpdateHandler) ListByProject(c echo.Context) error {
	scope, err := ctxScope(c)
	if err != nil {
		return err
	}
	updates, err := h.updates.ListProjectUpdates(c.Request().Context(), scope, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updates)
}

// Post appends a progress note to a project. The author is taken from
// the resolved identity, never from the payload.
func (h *UpdateHandler) Post(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req postUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	author := string(identity.Kind)
	if identity.Profile != nil {
		author = identity.Profile.Name
	}

	update, err := h.updates.PostUpdate(c.Request().Context(), ports.PostUpdateInput{
		ProjectID: c.Param("id"),
		Title:     req.Title,
		Body:      req.Body,
		Author:    author,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, update)
}

func (h *UpdateHandler) Delete(c echo.Context) error {
	if err := h.updates.DeleteUpdate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
