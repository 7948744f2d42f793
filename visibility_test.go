package blogium

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVisible(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	base := Post{
		Published:         true,
		CategoryPublished: true,
		PubDate:           now.Add(-time.Hour),
	}

	assert.True(t, Visible(base, now))

	draft := base
	draft.Published = false
	assert.False(t, Visible(draft, now), "unpublished post must be hidden")

	hiddenCat := base
	hiddenCat.CategoryPublished = false
	assert.False(t, Visible(hiddenCat, now), "unpublished category hides the post")

	future := base
	future.PubDate = now.Add(time.Minute)
	assert.False(t, Visible(future, now), "future post must be hidden")

	// Exactly at the publication time the post becomes visible.
	boundary := base
	boundary.PubDate = now
	assert.True(t, Visible(boundary, now))
}

func TestCanView(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	hidden := Post{
		ID:                1,
		AuthorID:          7,
		Published:         false,
		CategoryPublished: true,
		PubDate:           now.Add(-time.Hour),
	}

	assert.True(t, CanView(hidden, 7, now), "author sees their own hidden post")
	assert.False(t, CanView(hidden, 8, now), "another user does not")
	assert.False(t, CanView(hidden, 0, now), "anonymous does not")

	visible := hidden
	visible.Published = true
	assert.True(t, CanView(visible, 8, now))
	assert.True(t, CanView(visible, 0, now))
}
