package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/umrah-booking/internal/repository"
    "github.com/iliyamo/umrah-booking/internal/service"
)

// dbTimeout bounds every handler's database work.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// writeError maps service and repository errors to a JSON error response.
// Unexpected errors are logged and reported without detail.
func writeError(c echo.Context, err error) error {
    switch {
    case service.IsValidation(err):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case service.IsNotFound(err), errors.Is(err, repository.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": notFoundMessage(err)})
    case service.IsConflict(err), errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, context.DeadlineExceeded):
        log.Printf("handler: %s %s timed out: %v", c.Request().Method, c.Path(), err)
        return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "request timed out"})
    default:
        log.Printf("handler: %s %s failed: %v", c.Request().Method, c.Path(), err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}

func notFoundMessage(err error) string {
    var nf *service.NotFoundError
    if errors.As(err, &nf) {
        return nf.Error()
    }
    return "not found"
}

func badBody(c echo.Context) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}
