package blogium

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const sessionName = "blogium_session"

// CurrentUserID returns the id of the logged-in user, or 0 for anonymous.
func CurrentUserID(c echo.Context) int64 {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return 0
	}
	id, ok := sess.Values["user_id"].(int64)
	if !ok {
		return 0
	}
	return id
}

// currentUser loads the logged-in user's row, if any.
func (a *App) currentUser(c echo.Context) (User, bool) {
	id := CurrentUserID(c)
	if id == 0 {
		return User{}, false
	}
	u, err := a.Store.GetUserByID(id)
	if err != nil {
		return User{}, false
	}
	return u, true
}

// RequireLogin redirects anonymous requests to the login page. Handlers
// behind it can rely on CurrentUserID being non-zero.
func (a *App) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUserID(c) == 0 {
			return c.Redirect(http.StatusSeeOther, "/auth/login/")
		}
		return next(c)
	}
}

func setUserSession(c echo.Context, userID int64) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values["user_id"] = userID
	return sess.Save(c.Request(), c.Response())
}

func clearUserSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

func (a *App) handleLoginForm(c echo.Context) error {
	if CurrentUserID(c) != 0 {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return Render(c, a.Views.Login(LoginForm{}, CsrfToken(c)))
}

func (a *App) handleLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	user, err := a.Store.GetUserByUsername(username)
	if err == nil {
		err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	}
	if err != nil {
		a.loginLimiter.Record(c.RealIP())
		return Render(c, a.Views.Login(LoginForm{Username: username, Failed: true}, CsrfToken(c)))
	}

	if err := setUserSession(c, user.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/profile/"+user.Username+"/")
}

func (a *App) handleLogout(c echo.Context) error {
	if err := clearUserSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleRegisterForm(c echo.Context) error {
	if CurrentUserID(c) != 0 {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return Render(c, a.Views.Register(RegisterForm{}, CsrfToken(c)))
}

func (a *App) handleRegister(c echo.Context) error {
	form := parseRegisterForm(c)
	if !form.Validate() {
		return Render(c, a.Views.Register(form, CsrfToken(c)))
	}
	if _, err := a.Store.GetUserByUsername(form.Username); err == nil {
		form.Errors["username"] = "This username is already taken."
		return Render(c, a.Views.Register(form, CsrfToken(c)))
	} else if err != ErrNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	id, err := a.Store.CreateUser(User{
		Username:     form.Username,
		Email:        form.Email,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		PasswordHash: string(hash),
	})
	if err != nil {
		return err
	}
	if err := setUserSession(c, id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/profile/"+form.Username+"/")
}
