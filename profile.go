package blogium

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleProfile lists one author's posts. The owner sees everything they
// wrote, drafts and scheduled posts included; everyone else sees only
// what is publicly visible right now.
func (a *App) handleProfile(c echo.Context) error {
	now := requestNow()

	profile, err := a.Store.GetUserByUsername(c.Param("username"))
	if err == ErrNotFound {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	own := CurrentUserID(c) == profile.ID

	page := pageNumber(c)
	count, err := a.Store.CountUserPosts(profile.ID, own, now)
	if err != nil {
		return err
	}
	limit, offset := pageOffset(count, page, a.Config.PageSize)
	posts, err := a.Store.ListUserPosts(profile.ID, own, now, limit, offset)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Profile(profile, own, newPostPage(posts, count, page, a.Config.PageSize)))
}

func (a *App) handleProfileEditForm(c echo.Context) error {
	user, ok := a.currentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/auth/login/")
	}
	form := UserForm{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Errors:    FieldErrors{},
	}
	return Render(c, a.Views.ProfileForm(form, CsrfToken(c)))
}

func (a *App) handleProfileEdit(c echo.Context) error {
	user, ok := a.currentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/auth/login/")
	}
	form := parseUserForm(c)
	if !form.Validate() {
		return Render(c, a.Views.ProfileForm(form, CsrfToken(c)))
	}
	if form.Username != user.Username {
		if _, err := a.Store.GetUserByUsername(form.Username); err == nil {
			form.Errors["username"] = "This username is already taken."
			return Render(c, a.Views.ProfileForm(form, CsrfToken(c)))
		} else if err != ErrNotFound {
			return err
		}
	}

	user.Username = form.Username
	user.Email = form.Email
	user.FirstName = form.FirstName
	user.LastName = form.LastName
	if err := a.Store.UpdateUser(user); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/profile/"+user.Username+"/")
}
