package blogium

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// pageNumber reads the ?page query parameter, defaulting to 1.
func pageNumber(c echo.Context) int {
	n, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// totalPages returns how many pages a listing of count items spans,
// never less than 1 so an empty listing still renders page 1 of 1.
func totalPages(count, perPage int) int {
	if count <= 0 {
		return 1
	}
	return (count + perPage - 1) / perPage
}

// newPostPage assembles pagination state for a listing. number is
// clamped into range before the offset is computed, so a stale ?page
// beyond the end serves the last page instead of an empty one.
func newPostPage(posts []Post, count, number, perPage int) PostPage {
	total := totalPages(count, perPage)
	if number > total {
		number = total
	}
	return PostPage{
		Posts:   posts,
		Number:  number,
		Total:   total,
		HasPrev: number > 1,
		HasNext: number < total,
	}
}

// pageOffset returns the LIMIT/OFFSET pair for a 1-based page number,
// clamped the same way newPostPage clamps.
func pageOffset(count, number, perPage int) (limit, offset int) {
	total := totalPages(count, perPage)
	if number > total {
		number = total
	}
	if number < 1 {
		number = 1
	}
	return perPage, (number - 1) * perPage
}
