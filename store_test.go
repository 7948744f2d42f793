package blogium

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test_blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreateUser(t *testing.T, s *Store, username string) int64 {
	t.Helper()
	id, err := s.CreateUser(User{Username: username, PasswordHash: "x"})
	if err != nil {
		t.Fatalf("CreateUser(%q) failed: %v", username, err)
	}
	return id
}

func mustCreateCategory(t *testing.T, s *Store, slug string, published bool) int64 {
	t.Helper()
	id, err := s.SaveCategory(Category{Title: slug, Slug: slug, Published: published})
	if err != nil {
		t.Fatalf("SaveCategory(%q) failed: %v", slug, err)
	}
	return id
}

func mustCreatePost(t *testing.T, s *Store, p Post) int64 {
	t.Helper()
	if p.Title == "" {
		p.Title = "A post"
	}
	if p.Text == "" {
		p.Text = "Some text."
	}
	id, err := s.CreatePost(p)
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	return id
}

func TestCreateAndGetPost(t *testing.T) {
	s := setupTestStore(t)
	userID := mustCreateUser(t, s, "alice")
	catID := mustCreateCategory(t, s, "travel", true)
	locID, err := s.SaveLocation(Location{Name: "Lisbon"})
	if err != nil {
		t.Fatalf("SaveLocation failed: %v", err)
	}

	pubDate := time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)
	id := mustCreatePost(t, s, Post{
		Title:      "Hello",
		Text:       "First post.",
		PubDate:    pubDate,
		Published:  true,
		AuthorID:   userID,
		CategoryID: catID,
		LocationID: locID,
	})

	got, err := s.GetPost(id)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "Hello" {
		t.Errorf("Title = %q, want %q", got.Title, "Hello")
	}
	if !got.PubDate.Equal(pubDate) {
		t.Errorf("PubDate = %v, want %v", got.PubDate, pubDate)
	}
	if got.Author != "alice" {
		t.Errorf("Author = %q, want %q", got.Author, "alice")
	}
	if got.CategorySlug != "travel" {
		t.Errorf("CategorySlug = %q, want %q", got.CategorySlug, "travel")
	}
	if !got.CategoryPublished {
		t.Error("CategoryPublished should be true")
	}
	if got.LocationName != "Lisbon" {
		t.Errorf("LocationName = %q, want %q", got.LocationName, "Lisbon")
	}
	if got.CommentCount != 0 {
		t.Errorf("CommentCount = %d, want 0", got.CommentCount)
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetPost(42); err != ErrNotFound {
		t.Fatalf("GetPost(42) error = %v, want ErrNotFound", err)
	}
}

func TestFuturePostHiddenUntilPubDate(t *testing.T) {
	s := setupTestStore(t)
	userID := mustCreateUser(t, s, "alice")
	catID := mustCreateCategory(t, s, "news", true)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tomorrow := now.Add(24 * time.Hour)
	mustCreatePost(t, s, Post{
		Title:      "Scheduled",
		PubDate:    tomorrow,
		Published:  true,
		AuthorID:   userID,
		CategoryID: catID,
	})

	posts, err := s.ListVisiblePosts(now, 10, 0)
	if err != nil {
		t.Fatalf("ListVisiblePosts failed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("future post listed today: got %d posts", len(posts))
	}

	// Visible exactly once now reaches the publication time.
	posts, err = s.ListVisiblePosts(tomorrow, 10, 0)
	if err != nil {
		t.Fatalf("ListVisiblePosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("post not listed at its pub date: got %d posts", len(posts))
	}

	count, err := s.CountVisiblePosts(now)
	if err != nil {
		t.Fatalf("CountVisiblePosts failed: %v", err)
	}
	if count != 0 {
		t.Errorf("CountVisiblePosts(now) = %d, want 0", count)
	}
}

func TestUnpublishedCategoryHidesPosts(t *testing.T) {
	s := setupTestStore(t)
	userID := mustCreateUser(t, s, "alice")
	hiddenCat := mustCreateCategory(t, s, "drafts", false)

	now := time.Now().UTC()
	mustCreatePost(t, s, Post{
		Title:      "Published post, hidden category",
		PubDate:    now.Add(-time.Hour),
		Published:  true,
		AuthorID:   userID,
		CategoryID: hiddenCat,
	})

	posts, err := s.ListVisiblePosts(now, 10, 0)
	if err != nil {
		t.Fatalf("ListVisiblePosts failed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("post in unpublished category listed: got %d posts", len(posts))
	}
}

func TestListVisiblePostsNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	userID := mustCreateUser(t, s, "alice")
	catID := mustCreateCategory(t, s, "misc", true)

	now := time.Now().UTC()
	mustCreatePost(t, s, Post{Title: "older", PubDate: now.Add(-2 * time.Hour), Published: true, AuthorID: userID, CategoryID: catID})
	mustCreatePost(t, s, Post{Title: "newer", PubDate: now.Add(-time.Hour), Published: true, AuthorID: userID, CategoryID: catID})

	posts, err := s.ListVisiblePosts(now, 10, 0)
	if err != nil {
		t.Fatalf("ListVisiblePosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	if posts[0].Title != "newer" || posts[1].Title != "older" {
		t.Errorf("order = [%s %s], want [newer older]", posts[0].Title, posts[1].Title)
	}
}

func TestListUserPostsOwnerSeesHidden(t *testing.T) {
	s := setupTestStore(t)
	userID := mustCreateUser(t, s, "alice")
	catID := mustCreateCategory(t, s, "misc", true)

	now := time.Now().UTC()
	mustCreatePost(t, s, Post{Title: "visible", PubDate: now.Add(-time.Hour), Published: true, AuthorID: userID, CategoryID: catID})
	mustCreatePost(t, s, Post{Title: "draft", PubDate: now.Add(-time.Hour), Published: false, AuthorID: userID, CategoryID: catID})
	mustCreatePost(t, s, Post{Title: "scheduled", PubDate: now.Add(time.Hour), Published: true, AuthorID: userID, CategoryID: catID})

	own, err := s.ListUserPosts(userID, true, now, 10, 0)
	if err != nil {
		t.Fatalf("ListUserPosts(owner) failed: %v", err)
	}
	if len(own) != 3 {
		t.Errorf("owner sees %d posts, want 3", len(own))
	}

	public, err := s.ListUserPosts(userID, false, now, 10, 0)
	if err != nil {
		t.Fatalf("ListUserPosts(public) failed: %v", err)
	}
	if len(public) != 1 || public[0].Title != "visible" {
		t.Errorf("public sees %v, want just the visible post", public)
	}

	count, err := s.CountUserPosts(userID, true, now)
	if err != nil {
		t.Fatalf("CountUserPosts failed: %v", err)
	}
	if count != 3 {
		t.Errorf("CountUserPosts(owner) = %d, want 3", count)
	}
}

func TestCategoryPostsFilteredByCategory(t *testing.T) {
	s := setupTestStore(t)
	userID := mustCreateUser(t, s, "alice")
	travel := mustCreateCategory(t, s, "travel", true)
	food := mustCreateCategory(t, s, "food", true)

	now := time.Now().UTC()
	mustCreatePost(t, s, Post{Title: "trip", PubDate: now.Add(-time.Hour), Published: true, AuthorID: userID, CategoryID: travel})
	mustCreatePost(t, s, Post{Title: "recipe", PubDate: now.Add(-time.Hour), Published: true, AuthorID: userID, CategoryID: food})

	posts, err := s.ListCategoryPosts(travel, now, 10, 0)
	if err != nil {
		t.Fatalf("ListCategoryPosts failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "trip" {
		t.Errorf("category listing = %v, want just the travel post", posts)
	}
}

func TestDeletePostCascadesComments(t *testing.T) {
	s := setupTestStore(t)
	author := mustCreateUser(t, s, "alice")
	reader := mustCreateUser(t, s, "bob")
	catID := mustCreateCategory(t, s, "misc", true)
	postID := mustCreatePost(t, s, Post{PubDate: time.Now().UTC(), Published: true, AuthorID: author, CategoryID: catID})

	cmID, err := s.CreateComment(Comment{Text: "nice", PostID: postID, AuthorID: reader})
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	if err := s.DeletePost(postID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetComment(cmID); err != ErrNotFound {
		t.Fatalf("comment survived post deletion: err = %v, want ErrNotFound", err)
	}
}

func TestDeletePostCascadesOnEveryPoolConnection(t *testing.T) {
	s := setupTestStore(t)
	author := mustCreateUser(t, s, "alice")
	catID := mustCreateCategory(t, s, "misc", true)
	postID := mustCreatePost(t, s, Post{PubDate: time.Now().UTC(), Published: true, AuthorID: author, CategoryID: catID})

	cmID, err := s.CreateComment(Comment{Text: "nice", PostID: postID, AuthorID: author})
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	// Pin the connection the setup ran on so DeletePost is forced onto a
	// fresh pool connection, which must also have foreign_keys enabled.
	ctx := context.Background()
	held, err := s.db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn failed: %v", err)
	}
	defer held.Close()

	var fk int
	if err := held.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("PRAGMA foreign_keys failed: %v", err)
	}
	if fk != 1 {
		t.Fatalf("foreign_keys = %d on pool connection, want 1", fk)
	}

	if err := s.DeletePost(postID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetComment(cmID); err != ErrNotFound {
		t.Fatalf("comment survived post deletion on second connection: err = %v, want ErrNotFound", err)
	}
}

func TestCommentsOldestFirstAndCounted(t *testing.T) {
	s := setupTestStore(t)
	author := mustCreateUser(t, s, "alice")
	catID := mustCreateCategory(t, s, "misc", true)
	postID := mustCreatePost(t, s, Post{PubDate: time.Now().UTC().Add(-time.Hour), Published: true, AuthorID: author, CategoryID: catID})

	first, err := s.CreateComment(Comment{Text: "first", PostID: postID, AuthorID: author})
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if _, err := s.CreateComment(Comment{Text: "second", PostID: postID, AuthorID: author}); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	comments, err := s.ListPostComments(postID)
	if err != nil {
		t.Fatalf("ListPostComments failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	if comments[0].ID != first {
		t.Errorf("first listed comment = %d, want %d", comments[0].ID, first)
	}
	if comments[0].Author != "alice" {
		t.Errorf("comment author = %q, want alice", comments[0].Author)
	}

	post, err := s.GetPost(postID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if post.CommentCount != 2 {
		t.Errorf("CommentCount = %d, want 2", post.CommentCount)
	}
}

func TestUpdateComment(t *testing.T) {
	s := setupTestStore(t)
	author := mustCreateUser(t, s, "alice")
	catID := mustCreateCategory(t, s, "misc", true)
	postID := mustCreatePost(t, s, Post{PubDate: time.Now().UTC(), Published: true, AuthorID: author, CategoryID: catID})

	cmID, err := s.CreateComment(Comment{Text: "tpyo", PostID: postID, AuthorID: author})
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if err := s.UpdateComment(cmID, "typo"); err != nil {
		t.Fatalf("UpdateComment failed: %v", err)
	}
	cm, err := s.GetComment(cmID)
	if err != nil {
		t.Fatalf("GetComment failed: %v", err)
	}
	if cm.Text != "typo" {
		t.Errorf("Text = %q, want %q", cm.Text, "typo")
	}

	if err := s.UpdateComment(9999, "x"); err != ErrNotFound {
		t.Errorf("UpdateComment(missing) error = %v, want ErrNotFound", err)
	}
}

func TestUsersByNameAndUpdate(t *testing.T) {
	s := setupTestStore(t)
	id := mustCreateUser(t, s, "alice")

	u, err := s.GetUserByUsername("alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if u.ID != id {
		t.Errorf("ID = %d, want %d", u.ID, id)
	}

	u.FirstName = "Alice"
	u.Email = "alice@example.com"
	if err := s.UpdateUser(u); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	got, err := s.GetUserByID(id)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if got.FirstName != "Alice" || got.Email != "alice@example.com" {
		t.Errorf("profile fields not updated: %+v", got)
	}

	if _, err := s.GetUserByUsername("nobody"); err != ErrNotFound {
		t.Errorf("GetUserByUsername(missing) error = %v, want ErrNotFound", err)
	}
}

func TestGetCategoryBySlug(t *testing.T) {
	s := setupTestStore(t)
	mustCreateCategory(t, s, "hidden", false)

	cat, err := s.GetCategoryBySlug("hidden")
	if err != nil {
		t.Fatalf("GetCategoryBySlug failed: %v", err)
	}
	if cat.Published {
		t.Error("Published should be false")
	}

	if _, err := s.GetCategoryBySlug("missing"); err != ErrNotFound {
		t.Errorf("GetCategoryBySlug(missing) error = %v, want ErrNotFound", err)
	}

	// ListCategories only surfaces published ones for the post form.
	cats, err := s.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats) != 0 {
		t.Errorf("ListCategories = %v, want none", cats)
	}
}
