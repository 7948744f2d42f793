package blogium

import "time"

// User is a registered author. PasswordHash is a bcrypt hash and never
// leaves the store layer except for login verification.
type User struct {
	ID           int64
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
}

// DisplayName returns the user's full name, falling back to the username.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

// Category is an independently publishable grouping of posts. An
// unpublished category hides every post in it.
type Category struct {
	ID          int64
	Title       string
	Slug        string
	Description string
	Published   bool
	CreatedAt   time.Time
}

// Location is an optional descriptive label on a post. It carries no
// visibility semantics of its own.
type Location struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Post is a blog entry. Listing queries fill the joined author/category/
// location fields and the comment count; CategoryPublished travels with
// the post so the visibility predicate can be evaluated on a loaded row.
type Post struct {
	ID         int64
	Title      string
	Text       string
	PubDate    time.Time
	Published  bool
	AuthorID   int64
	CategoryID int64
	LocationID int64 // 0 means no location
	Image      string
	CreatedAt  time.Time

	Author            string // username
	CategoryTitle     string
	CategorySlug      string
	CategoryPublished bool
	LocationName      string
	CommentCount      int
}

// Comment is a reply on a post. Only its author may change or remove it.
type Comment struct {
	ID        int64
	Text      string
	PostID    int64
	AuthorID  int64
	CreatedAt time.Time

	Author string // username
}

// PostPage is one page of a post listing plus the cursor state the
// templates need to render pagination links.
type PostPage struct {
	Posts   []Post
	Number  int // 1-based
	Total   int // total pages, at least 1
	HasPrev bool
	HasNext bool
}
