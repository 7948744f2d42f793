package blogium

import "time"

// A post is publicly visible when it is published, its category is
// published, and its publication time is not in the future. The rule
// exists in exactly two synchronized forms: Visible for loaded rows and
// visibleWhere for SQL listings. Both take the moment of evaluation
// explicitly; handlers compute "now" once per request and pass it down,
// so index, category, and profile listings can never disagree on it.

// visibleWhere filters posts to the publicly visible subset. It expects
// the posts table aliased as p, the categories table joined as c, and a
// single argument: the current time in storeTime format.
const visibleWhere = `p.published = 1 AND c.published = 1 AND p.pub_date <= ?`

// Visible reports whether the post is publicly readable at the given
// moment. The post must carry its category's published flag.
func Visible(p Post, now time.Time) bool {
	return p.Published && p.CategoryPublished && !p.PubDate.After(now)
}

// CanView reports whether the user with the given id may open the post's
// detail page: the author always can, everyone else only while the post
// is visible. userID 0 means anonymous.
func CanView(p Post, userID int64, now time.Time) bool {
	if userID != 0 && userID == p.AuthorID {
		return true
	}
	return Visible(p, now)
}
