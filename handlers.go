package blogium

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// requestNow is the single moment of evaluation for a request. Every
// visibility decision within one request uses the same value.
func requestNow() time.Time {
	return time.Now().UTC()
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

func (a *App) handleIndex(c echo.Context) error {
	now := requestNow()
	page := pageNumber(c)

	count, err := a.Store.CountVisiblePosts(now)
	if err != nil {
		return err
	}
	limit, offset := pageOffset(count, page, a.Config.PageSize)
	posts, err := a.Store.ListVisiblePosts(now, limit, offset)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Index(newPostPage(posts, count, page, a.Config.PageSize), a.Config.URL))
}

func (a *App) handleCategory(c echo.Context) error {
	now := requestNow()

	category, err := a.Store.GetCategoryBySlug(c.Param("slug"))
	if err == ErrNotFound {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	// An unpublished category is indistinguishable from a missing one.
	if !category.Published {
		return echo.ErrNotFound
	}

	page := pageNumber(c)
	count, err := a.Store.CountCategoryPosts(category.ID, now)
	if err != nil {
		return err
	}
	limit, offset := pageOffset(count, page, a.Config.PageSize)
	posts, err := a.Store.ListCategoryPosts(category.ID, now, limit, offset)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Category(category, newPostPage(posts, count, page, a.Config.PageSize)))
}

func (a *App) handleDetail(c echo.Context) error {
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

	comments, err := a.Store.ListPostComments(post.ID)
	if err != nil {
		return err
	}
	form := CommentForm{PostID: post.ID}
	return Render(c, a.Views.Detail(post, comments, form, CsrfToken(c)))
}
