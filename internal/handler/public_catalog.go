// Package handler exposes the HTTP handlers for the public catalog, the
// customer dashboard and the admin back office.
package handler

import (
    "context"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/umrah-booking/internal/model"
)

// Catalog is the package catalog API; *service.CatalogService implements it.
type Catalog interface {
    ListPublished(ctx context.Context, f model.PackageFilter) (model.PackagePage, error)
    GetBySlugOrID(ctx context.Context, key string) (*model.PackageDetail, error)
    ListAll(ctx context.Context) ([]model.PackageView, error)
    GetAny(ctx context.Context, key string) (*model.Package, error)
    SavePackage(ctx context.Context, id string, in model.PackageInput) (*model.Package, error)
    DeletePackage(ctx context.Context, id string) error
}

// PublicCatalogHandler serves unauthenticated package browsing.
type PublicCatalogHandler struct {
    Catalog Catalog
}

// ListPackages supports q, price (under-100k | 100k-200k | 200k-350k |
// 350k-plus), star=5star, flight=direct, featured=true, page and page_size.
func (h *PublicCatalogHandler) ListPackages(c echo.Context) error {
    page, _ := strconv.Atoi(c.QueryParam("page"))
    ps, _ := strconv.Atoi(c.QueryParam("page_size"))
    featured, _ := strconv.ParseBool(c.QueryParam("featured"))

    f := model.PackageFilter{
        Query:      c.QueryParam("q"),
        PriceRange: strings.ToLower(strings.TrimSpace(c.QueryParam("price"))),
        Star:       strings.ToLower(strings.TrimSpace(c.QueryParam("star"))),
        Flight:     strings.ToLower(strings.TrimSpace(c.QueryParam("flight"))),
        Featured:   featured,
        Page:       page,
        PageSize:   ps,
    }

    ctx, cancel := reqCtx(c)
    defer cancel()
    res, err := h.Catalog.ListPublished(ctx, f)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "data":      res.Items,
        "total":     res.Total,
        "page":      res.Page,
        "page_size": res.PageSize,
    })
}

// GetPackage resolves :key as slug or id.
func (h *PublicCatalogHandler) GetPackage(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    d, err := h.Catalog.GetBySlugOrID(ctx, c.Param("key"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, d)
}
