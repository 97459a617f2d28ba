package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/umrah-booking/internal/model"
    "github.com/iliyamo/umrah-booking/internal/repository"
)

// Collection is the CRUD surface of one content type;
// *service.Collection[T] implements it.
type Collection[T any] interface {
    List(ctx context.Context, publishedOnly bool) ([]T, error)
    Find(ctx context.Context, f repository.Filter) ([]T, error)
    Get(ctx context.Context, id string) (*T, error)
    GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*T, error)
    Create(ctx context.Context, rec *T) (*T, error)
    Update(ctx context.Context, id string, rec *T) (*T, error)
    Delete(ctx context.Context, id string) error
}

// ContentHandler exposes one collection. Public handlers only ever see
// published records.
type ContentHandler[T any] struct {
    C Collection[T]
}

func NewContentHandler[T any](c Collection[T]) *ContentHandler[T] {
    return &ContentHandler[T]{C: c}
}

func (h *ContentHandler[T]) list(c echo.Context, publishedOnly bool) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    items, err := h.C.List(ctx, publishedOnly)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *ContentHandler[T]) PublicList(c echo.Context) error { return h.list(c, true) }

func (h *ContentHandler[T]) AdminList(c echo.Context) error { return h.list(c, false) }

// PublicBySlug serves pages and blog posts.
func (h *ContentHandler[T]) PublicBySlug(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    rec, err := h.C.GetBySlug(ctx, c.Param("slug"), true)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, rec)
}

func (h *ContentHandler[T]) Get(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    rec, err := h.C.Get(ctx, c.Param("id"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, rec)
}

func (h *ContentHandler[T]) Create(c echo.Context) error {
    var rec T
    if err := c.Bind(&rec); err != nil {
        return badBody(c)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    out, err := h.C.Create(ctx, &rec)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, out)
}

func (h *ContentHandler[T]) Update(c echo.Context) error {
    var rec T
    if err := c.Bind(&rec); err != nil {
        return badBody(c)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    out, err := h.C.Update(ctx, c.Param("id"), &rec)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

func (h *ContentHandler[T]) Delete(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.C.Delete(ctx, c.Param("id")); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// PackageFAQHandler manages the questions nested under a package.
type PackageFAQHandler struct {
    *ContentHandler[model.PackageFAQ]
}

// ListForPackage serves GET /packages/:id/faqs.
func (h *PackageFAQHandler) ListForPackage(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    items, err := h.C.Find(ctx, repository.Filter{Where: "package_id = ?", Args: []any{c.Param("id")}})
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateForPackage serves POST /packages/:id/faqs; the path wins over any
// package_id in the body.
func (h *PackageFAQHandler) CreateForPackage(c echo.Context) error {
    var rec model.PackageFAQ
    if err := c.Bind(&rec); err != nil {
        return badBody(c)
    }
    rec.PackageID = c.Param("id")
    ctx, cancel := reqCtx(c)
    defer cancel()
    out, err := h.C.Create(ctx, &rec)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, out)
}

// Settings is the site settings API; *service.ContentService implements it.
type Settings interface {
    Settings(ctx context.Context) (map[string]string, error)
    SaveSettings(ctx context.Context, values map[string]string) error
}

type SettingsHandler struct {
    Svc Settings
}

// Get returns all settings as a flat object.
func (h *SettingsHandler) Get(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    m, err := h.Svc.Settings(ctx)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, m)
}

// Put upserts every key in the body and returns the full set.
func (h *SettingsHandler) Put(c echo.Context) error {
    var body map[string]string
    if err := c.Bind(&body); err != nil {
        return badBody(c)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Svc.SaveSettings(ctx, body); err != nil {
        return writeError(c, err)
    }
    m, err := h.Svc.Settings(ctx)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, m)
}
