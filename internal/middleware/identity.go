package middleware

import "github.com/labstack/echo/v4"

// CurrentUserID returns the authenticated account id, or "" for anonymous
// requests.
func CurrentUserID(c echo.Context) string {
    s, _ := c.Get(CtxUserID).(string)
    return s
}

// CurrentRole returns the role claim of the authenticated caller.
func CurrentRole(c echo.Context) string {
    s, _ := c.Get(CtxRole).(string)
    return s
}

// rateIdentity names the caller for rate-limit keys.
func rateIdentity(c echo.Context) string {
    if id := CurrentUserID(c); id != "" {
        return id
    }
    return "anon"
}
