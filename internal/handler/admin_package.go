package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/umrah-booking/internal/model"
)

// AdminPackageHandler is the back office package editor.
type AdminPackageHandler struct {
    Catalog Catalog
}

func (h *AdminPackageHandler) List(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    items, err := h.Catalog.ListAll(ctx)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get includes unpublished packages.
func (h *AdminPackageHandler) Get(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    p, err := h.Catalog.GetAny(ctx, c.Param("id"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, model.NewPackageView(*p))
}

func (h *AdminPackageHandler) Create(c echo.Context) error {
    return h.save(c, "", http.StatusCreated)
}

func (h *AdminPackageHandler) Update(c echo.Context) error {
    return h.save(c, c.Param("id"), http.StatusOK)
}

func (h *AdminPackageHandler) save(c echo.Context, id string, status int) error {
    var in model.PackageInput
    if err := c.Bind(&in); err != nil {
        return badBody(c)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    p, err := h.Catalog.SavePackage(ctx, id, in)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(status, model.NewPackageView(*p))
}

func (h *AdminPackageHandler) Delete(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Catalog.DeletePackage(ctx, c.Param("id")); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
