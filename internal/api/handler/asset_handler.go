package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brightfold/portal-api/internal/core/ports"
)

// maxAssetBytes caps a single upload at 25 MiB.
const maxAssetBytes = 25 << 20

// AssetHandler exposes project asset management: admins upload and
// delete, clients list their own.
type AssetHandler struct {
	assets ports.AssetService
}

func NewAssetHandler(assets ports.AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

func (h *AssetHandler) List(c echo.Context) error {
	scope, err := ctxScope(c)
	if err != nil {
		return err
	}
	assets, err := h.assets.ListAssets(c.Request().Context(), scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, assets)
}

// Upload stores a multipart file against a project.
func (h *AssetHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fileHeader.Size > maxAssetBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAssetBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}

	asset, err := h.assets.UploadAsset(c.Request().Context(), ports.UploadAssetInput{
		ProjectID: c.Param("id"),
		Name:      fileHeader.Filename,
		Data:      data,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) Delete(c echo.Context) error {
	if err := h.assets.DeleteAsset(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
