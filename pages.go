package blogium

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, a.Views.About())
}

func (a *App) handleRules(c echo.Context) error {
	return Render(c, a.Views.Rules())
}

// httpErrorHandler renders the dedicated error pages. No stack trace or
// internal message ever reaches the response body.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok {
		switch he.Code {
		case http.StatusNotFound:
			_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
			return
		case http.StatusForbidden:
			_ = RenderStatus(c, http.StatusForbidden, a.Views.Forbidden())
			return
		}
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
