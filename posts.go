package blogium

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// dispatchPost resolves the :id post and enforces authorship before any
// form handling runs. A non-author gets redirected to fallback and ok is
// false, meaning the response has already been written.
func (a *App) dispatchPost(c echo.Context, fallback func(Post) string) (post Post, ok bool, err error) {
	id, err := paramID(c, "id")
	if err != nil {
		return Post{}, false, err
	}
	post, err = a.Store.GetPost(id)
	if err == ErrNotFound {
		return Post{}, false, echo.ErrNotFound
	}
	if err != nil {
		return Post{}, false, err
	}
	if post.AuthorID != CurrentUserID(c) {
		return Post{}, false, c.Redirect(http.StatusSeeOther, fallback(post))
	}
	return post, true, nil
}

func postDetailURL(p Post) string {
	return fmt.Sprintf("/posts/%d/", p.ID)
}

func indexURL(Post) string {
	return "/"
}

// populatePickers fills the form's category and location choices.
func (a *App) populatePickers(form *PostForm) error {
	categories, err := a.Store.ListCategories()
	if err != nil {
		return err
	}
	locations, err := a.Store.ListLocations()
	if err != nil {
		return err
	}
	form.Categories = categories
	form.Locations = locations
	return nil
}

// ensureCategoryChoice keeps the post's current category selectable on
// edit even after it was unpublished, so saving other fields does not
// force picking a new category.
func ensureCategoryChoice(form *PostForm, post Post) {
	if post.CategoryID == 0 {
		return
	}
	for _, cat := range form.Categories {
		if cat.ID == post.CategoryID {
			return
		}
	}
	form.Categories = append(form.Categories, Category{
		ID:        post.CategoryID,
		Title:     post.CategoryTitle,
		Slug:      post.CategorySlug,
		Published: post.CategoryPublished,
	})
}

// validChoices rejects a category outside the picker (unpublished or
// unknown) and clears an unknown location.
func validChoices(form *PostForm) {
	if form.CategoryID != 0 {
		found := false
		for _, cat := range form.Categories {
			if cat.ID == form.CategoryID {
				found = true
				break
			}
		}
		if !found {
			form.Errors["category"] = "Choose a valid category."
		}
	}
	if form.LocationID != 0 {
		found := false
		for _, loc := range form.Locations {
			if loc.ID == form.LocationID {
				found = true
				break
			}
		}
		if !found {
			form.LocationID = 0
		}
	}
}

func (a *App) handlePostCreateForm(c echo.Context) error {
	form := PostForm{
		PubDate:   formatPubDate(requestNow()),
		Published: true,
		Errors:    FieldErrors{},
	}
	if err := a.populatePickers(&form); err != nil {
		return err
	}
	return Render(c, a.Views.PostForm(form, CsrfToken(c)))
}

func (a *App) handlePostCreate(c echo.Context) error {
	form := parsePostForm(c)
	if err := a.populatePickers(&form); err != nil {
		return err
	}
	valid := form.Validate()
	validChoices(&form)
	if !valid || len(form.Errors) > 0 {
		return Render(c, a.Views.PostForm(form, CsrfToken(c)))
	}

	image, err := a.savePostImage(c)
	if err != nil {
		form.Errors["image"] = err.Error()
		return Render(c, a.Views.PostForm(form, CsrfToken(c)))
	}

	// The author comes from the session, never from the form.
	user, okUser := a.currentUser(c)
	if !okUser {
		return c.Redirect(http.StatusSeeOther, "/auth/login/")
	}
	_, err = a.Store.CreatePost(Post{
		Title:      form.Title,
		Text:       form.Text,
		PubDate:    form.PubDateTime(),
		Published:  form.Published,
		AuthorID:   user.ID,
		CategoryID: form.CategoryID,
		LocationID: form.LocationID,
		Image:      image,
	})
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/profile/"+user.Username+"/")
}

func (a *App) handlePostEditForm(c echo.Context) error {
	post, ok, err := a.dispatchPost(c, postDetailURL)
	if !ok {
		return err
	}
	form := PostForm{
		PostID:     post.ID,
		Title:      post.Title,
		Text:       post.Text,
		PubDate:    formatPubDate(post.PubDate),
		Published:  post.Published,
		CategoryID: post.CategoryID,
		LocationID: post.LocationID,
		Image:      post.Image,
		Errors:     FieldErrors{},
	}
	if err := a.populatePickers(&form); err != nil {
		return err
	}
	ensureCategoryChoice(&form, post)
	return Render(c, a.Views.PostForm(form, CsrfToken(c)))
}

func (a *App) handlePostEdit(c echo.Context) error {
	post, ok, err := a.dispatchPost(c, postDetailURL)
	if !ok {
		return err
	}
	form := parsePostForm(c)
	form.PostID = post.ID
	form.Image = post.Image
	if err := a.populatePickers(&form); err != nil {
		return err
	}
	ensureCategoryChoice(&form, post)
	valid := form.Validate()
	validChoices(&form)
	if !valid || len(form.Errors) > 0 {
		return Render(c, a.Views.PostForm(form, CsrfToken(c)))
	}

	image, err := a.savePostImage(c)
	if err != nil {
		form.Errors["image"] = err.Error()
		return Render(c, a.Views.PostForm(form, CsrfToken(c)))
	}
	if image == "" {
		image = post.Image
	} else if post.Image != "" {
		a.removePostImage(post.Image)
	}

	post.Title = form.Title
	post.Text = form.Text
	post.PubDate = form.PubDateTime()
	post.Published = form.Published
	post.CategoryID = form.CategoryID
	post.LocationID = form.LocationID
	post.Image = image
	if err := a.Store.UpdatePost(post); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, postDetailURL(post))
}

func (a *App) handlePostDeleteForm(c echo.Context) error {
	post, ok, err := a.dispatchPost(c, indexURL)
	if !ok {
		return err
	}
	return Render(c, a.Views.PostConfirmDelete(post, CsrfToken(c)))
}

func (a *App) handlePostDelete(c echo.Context) error {
	post, ok, err := a.dispatchPost(c, indexURL)
	if !ok {
		return err
	}
	// Comments go with the post via the cascade.
	if err := a.Store.DeletePost(post.ID); err != nil {
		return err
	}
	if post.Image != "" {
		a.removePostImage(post.Image)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
