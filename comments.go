package blogium

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// dispatchComment resolves the :comment_id comment and enforces
// authorship. A non-author is redirected to the post's detail page and
// ok is false, meaning the response has already been written.
func (a *App) dispatchComment(c echo.Context) (comment Comment, ok bool, err error) {
	id, err := paramID(c, "comment_id")
	if err != nil {
		return Comment{}, false, err
	}
	comment, err = a.Store.GetComment(id)
	if err == ErrNotFound {
		return Comment{}, false, echo.ErrNotFound
	}
	if err != nil {
		return Comment{}, false, err
	}
	if comment.AuthorID != CurrentUserID(c) {
		return Comment{}, false, c.Redirect(http.StatusSeeOther, commentPostURL(comment))
	}
	return comment, true, nil
}

func commentPostURL(cm Comment) string {
	return postDetailURL(Post{ID: cm.PostID})
}

// handleCommentAdd creates a comment on the :id post. The target post is
// resolved once here and that same post feeds both the saved row and the
// success redirect; form-submitted post or author values are ignored.
func (a *App) handleCommentAdd(c echo.Context) error {
	now := requestNow()

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := a.Store.GetPost(id)
	if err == ErrNotFound {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	if !CanView(post, CurrentUserID(c), now) {
		return echo.ErrNotFound
	}

	form := parseCommentForm(c)
	form.PostID = post.ID
	if !form.Validate() {
		comments, err := a.Store.ListPostComments(post.ID)
		if err != nil {
			return err
		}
		return Render(c, a.Views.Detail(post, comments, form, CsrfToken(c)))
	}

	if _, err := a.Store.CreateComment(Comment{
		Text:     form.Text,
		PostID:   post.ID,
		AuthorID: CurrentUserID(c),
	}); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, postDetailURL(post))
}

func (a *App) handleCommentEditForm(c echo.Context) error {
	comment, ok, err := a.dispatchComment(c)
	if !ok {
		return err
	}
	form := CommentForm{
		PostID:    comment.PostID,
		CommentID: comment.ID,
		Text:      comment.Text,
		Errors:    FieldErrors{},
	}
	return Render(c, a.Views.CommentForm(form, CsrfToken(c)))
}

func (a *App) handleCommentEdit(c echo.Context) error {
	comment, ok, err := a.dispatchComment(c)
	if !ok {
		return err
	}
	form := parseCommentForm(c)
	form.PostID = comment.PostID
	form.CommentID = comment.ID
	if !form.Validate() {
		return Render(c, a.Views.CommentForm(form, CsrfToken(c)))
	}
	if err := a.Store.UpdateComment(comment.ID, form.Text); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, commentPostURL(comment))
}

func (a *App) handleCommentDeleteForm(c echo.Context) error {
	comment, ok, err := a.dispatchComment(c)
	if !ok {
		return err
	}
	return Render(c, a.Views.CommentConfirmDelete(comment, CsrfToken(c)))
}

func (a *App) handleCommentDelete(c echo.Context) error {
	comment, ok, err := a.dispatchComment(c)
	if !ok {
		return err
	}
	if err := a.Store.DeleteComment(comment.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, commentPostURL(comment))
}
