package blogium

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("blogium: not found")

// storeTimeLayout is how timestamps are stored. Everything is UTC, so
// lexicographic comparison in SQL matches chronological order.
const storeTimeLayout = "2006-01-02 15:04:05"

func storeTime(t time.Time) string {
	return t.UTC().Format(storeTimeLayout)
}

func parseStoreTime(s string) time.Time {
	t, _ := time.ParseInLocation(storeTimeLayout, s, time.UTC)
	return t
}

// Store wraps a SQLite database and provides CRUD operations for users,
// categories, locations, posts, and comments.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	// Pragmas go in the DSN so the driver applies them to every pool
	// connection: WAL for concurrent read/write access, a busy timeout so
	// writers wait instead of failing with SQLITE_BUSY, and foreign_keys so
	// comment rows cascade when their post is deleted.
	dsn := path + "?_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=cache_size(-8000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL DEFAULT '',
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    published INTEGER NOT NULL DEFAULT 1,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS locations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    text TEXT NOT NULL,
    pub_date TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 1,
    author_id INTEGER NOT NULL REFERENCES users(id),
    category_id INTEGER NOT NULL REFERENCES categories(id),
    location_id INTEGER REFERENCES locations(id),
    image TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS comments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    text TEXT NOT NULL,
    post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    author_id INTEGER NOT NULL REFERENCES users(id),
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_pub_date ON posts(pub_date);
CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author_id);
CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id);
`)
	return err
}

func notFound(err error) error {
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

// --- users ---

// CreateUser inserts a new user and returns its id.
func (s *Store) CreateUser(u User) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO users (username, email, first_name, last_name, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, storeTime(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) scanUser(row *sql.Row) (User, error) {
	var u User
	var created string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &created)
	if err != nil {
		return User{}, notFound(err)
	}
	u.CreatedAt = parseStoreTime(created)
	return u, nil
}

// GetUserByID returns a user by primary key.
func (s *Store) GetUserByID(id int64) (User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, username, email, first_name, last_name, password_hash, created_at FROM users WHERE id = ?`, id))
}

// GetUserByUsername returns a user by username.
func (s *Store) GetUserByUsername(username string) (User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, username, email, first_name, last_name, password_hash, created_at FROM users WHERE username = ?`, username))
}

// UpdateUser rewrites the profile fields of an existing user.
func (s *Store) UpdateUser(u User) error {
	res, err := s.db.Exec(
		`UPDATE users SET username = ?, email = ?, first_name = ?, last_name = ? WHERE id = ?`,
		u.Username, u.Email, u.FirstName, u.LastName, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- categories ---

// SaveCategory inserts or updates a category keyed by slug and returns its id.
func (s *Store) SaveCategory(c Category) (int64, error) {
	_, err := s.db.Exec(`
INSERT INTO categories (title, slug, description, published, created_at) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(slug) DO UPDATE SET title = excluded.title, description = excluded.description, published = excluded.published`,
		c.Title, c.Slug, c.Description, boolInt(c.Published), storeTime(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("save category: %w", err)
	}
	if c.ID != 0 {
		return c.ID, nil
	}
	var id int64
	if err := s.db.QueryRow(`SELECT id FROM categories WHERE slug = ?`, c.Slug).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetCategoryBySlug returns a category by slug regardless of its
// published flag. Callers enforcing visibility check Published.
func (s *Store) GetCategoryBySlug(slug string) (Category, error) {
	var c Category
	var published int
	var created string
	err := s.db.QueryRow(
		`SELECT id, title, slug, description, published, created_at FROM categories WHERE slug = ?`, slug).
		Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &published, &created)
	if err != nil {
		return Category{}, notFound(err)
	}
	c.Published = published == 1
	c.CreatedAt = parseStoreTime(created)
	return c, nil
}

// ListCategories returns all published categories ordered by title,
// for the post form's category picker.
func (s *Store) ListCategories() ([]Category, error) {
	rows, err := s.db.Query(
		`SELECT id, title, slug, description, published, created_at FROM categories WHERE published = 1 ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		var published int
		var created string
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &published, &created); err != nil {
			return nil, err
		}
		c.Published = published == 1
		c.CreatedAt = parseStoreTime(created)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// --- locations ---

// SaveLocation inserts a location and returns its id.
func (s *Store) SaveLocation(l Location) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO locations (name, created_at) VALUES (?, ?)`,
		l.Name, storeTime(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("save location: %w", err)
	}
	return res.LastInsertId()
}

// ListLocations returns all locations ordered by name.
func (s *Store) ListLocations() ([]Location, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var l Location
		var created string
		if err := rows.Scan(&l.ID, &l.Name, &created); err != nil {
			return nil, err
		}
		l.CreatedAt = parseStoreTime(created)
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// --- posts ---

// postSelect is shared by every post query so rows always carry the
// joined author, category, location, and comment count.
const postSelect = `
SELECT p.id, p.title, p.text, p.pub_date, p.published, p.author_id, p.category_id,
       COALESCE(p.location_id, 0), p.image, p.created_at,
       u.username, c.title, c.slug, c.published, COALESCE(l.name, ''),
       (SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id)
FROM posts p
JOIN users u ON u.id = p.author_id
JOIN categories c ON c.id = p.category_id
LEFT JOIN locations l ON l.id = p.location_id`

const postCount = `
SELECT COUNT(*)
FROM posts p
JOIN categories c ON c.id = p.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var p Post
	var pubDate, created string
	var published, catPublished int
	err := row.Scan(&p.ID, &p.Title, &p.Text, &pubDate, &published, &p.AuthorID, &p.CategoryID,
		&p.LocationID, &p.Image, &created,
		&p.Author, &p.CategoryTitle, &p.CategorySlug, &catPublished, &p.LocationName,
		&p.CommentCount)
	if err != nil {
		return Post{}, notFound(err)
	}
	p.PubDate = parseStoreTime(pubDate)
	p.CreatedAt = parseStoreTime(created)
	p.Published = published == 1
	p.CategoryPublished = catPublished == 1
	return p, nil
}

func (s *Store) queryPosts(query string, args ...any) ([]Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CreatePost inserts a post and returns its id.
func (s *Store) CreatePost(p Post) (int64, error) {
	res, err := s.db.Exec(`
INSERT INTO posts (title, text, pub_date, published, author_id, category_id, location_id, image, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Text, storeTime(p.PubDate), boolInt(p.Published),
		p.AuthorID, p.CategoryID, nullID(p.LocationID), p.Image, storeTime(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("create post: %w", err)
	}
	return res.LastInsertId()
}

// UpdatePost rewrites the editable fields of an existing post. The
// author is never changed here.
func (s *Store) UpdatePost(p Post) error {
	res, err := s.db.Exec(`
UPDATE posts SET title = ?, text = ?, pub_date = ?, published = ?, category_id = ?, location_id = ?, image = ?
WHERE id = ?`,
		p.Title, p.Text, storeTime(p.PubDate), boolInt(p.Published),
		p.CategoryID, nullID(p.LocationID), p.Image, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost removes a post; its comments cascade away with it.
func (s *Store) DeletePost(id int64) error {
	res, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPost returns a post by id regardless of visibility. Callers decide
// with CanView whether the requester may see it.
func (s *Store) GetPost(id int64) (Post, error) {
	return scanPost(s.db.QueryRow(postSelect+` WHERE p.id = ?`, id))
}

// ListVisiblePosts returns the publicly visible posts at the given
// moment, newest first.
func (s *Store) ListVisiblePosts(now time.Time, limit, offset int) ([]Post, error) {
	return s.queryPosts(postSelect+` WHERE `+visibleWhere+` ORDER BY p.pub_date DESC LIMIT ? OFFSET ?`,
		storeTime(now), limit, offset)
}

// CountVisiblePosts returns how many posts are publicly visible at the
// given moment.
func (s *Store) CountVisiblePosts(now time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(postCount+` WHERE `+visibleWhere, storeTime(now)).Scan(&n)
	return n, err
}

// ListCategoryPosts returns the visible posts of one category, newest first.
func (s *Store) ListCategoryPosts(categoryID int64, now time.Time, limit, offset int) ([]Post, error) {
	return s.queryPosts(postSelect+` WHERE `+visibleWhere+` AND p.category_id = ? ORDER BY p.pub_date DESC LIMIT ? OFFSET ?`,
		storeTime(now), categoryID, limit, offset)
}

// CountCategoryPosts returns how many posts of the category are visible.
func (s *Store) CountCategoryPosts(categoryID int64, now time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(postCount+` WHERE `+visibleWhere+` AND p.category_id = ?`,
		storeTime(now), categoryID).Scan(&n)
	return n, err
}

// ListUserPosts returns one author's posts, newest first. With
// includeHidden (the author browsing their own profile) the visibility
// filter is dropped entirely: drafts and future posts included.
func (s *Store) ListUserPosts(authorID int64, includeHidden bool, now time.Time, limit, offset int) ([]Post, error) {
	if includeHidden {
		return s.queryPosts(postSelect+` WHERE p.author_id = ? ORDER BY p.pub_date DESC LIMIT ? OFFSET ?`,
			authorID, limit, offset)
	}
	return s.queryPosts(postSelect+` WHERE `+visibleWhere+` AND p.author_id = ? ORDER BY p.pub_date DESC LIMIT ? OFFSET ?`,
		storeTime(now), authorID, limit, offset)
}

// CountUserPosts mirrors ListUserPosts for pagination.
func (s *Store) CountUserPosts(authorID int64, includeHidden bool, now time.Time) (int, error) {
	var n int
	var err error
	if includeHidden {
		err = s.db.QueryRow(postCount+` WHERE p.author_id = ?`, authorID).Scan(&n)
	} else {
		err = s.db.QueryRow(postCount+` WHERE `+visibleWhere+` AND p.author_id = ?`,
			storeTime(now), authorID).Scan(&n)
	}
	return n, err
}

// --- comments ---

// CreateComment inserts a comment and returns its id.
func (s *Store) CreateComment(c Comment) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO comments (text, post_id, author_id, created_at) VALUES (?, ?, ?, ?)`,
		c.Text, c.PostID, c.AuthorID, storeTime(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("create comment: %w", err)
	}
	return res.LastInsertId()
}

// GetComment returns a comment by id with its author's username.
func (s *Store) GetComment(id int64) (Comment, error) {
	var c Comment
	var created string
	err := s.db.QueryRow(`
SELECT cm.id, cm.text, cm.post_id, cm.author_id, cm.created_at, u.username
FROM comments cm JOIN users u ON u.id = cm.author_id
WHERE cm.id = ?`, id).
		Scan(&c.ID, &c.Text, &c.PostID, &c.AuthorID, &created, &c.Author)
	if err != nil {
		return Comment{}, notFound(err)
	}
	c.CreatedAt = parseStoreTime(created)
	return c, nil
}

// ListPostComments returns a post's comments, oldest first.
func (s *Store) ListPostComments(postID int64) ([]Comment, error) {
	rows, err := s.db.Query(`
SELECT cm.id, cm.text, cm.post_id, cm.author_id, cm.created_at, u.username
FROM comments cm JOIN users u ON u.id = cm.author_id
WHERE cm.post_id = ?
ORDER BY cm.created_at ASC, cm.id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		var created string
		if err := rows.Scan(&c.ID, &c.Text, &c.PostID, &c.AuthorID, &created, &c.Author); err != nil {
			return nil, err
		}
		c.CreatedAt = parseStoreTime(created)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// UpdateComment rewrites a comment's text.
func (s *Store) UpdateComment(id int64, text string) error {
	res, err := s.db.Exec(`UPDATE comments SET text = ? WHERE id = ?`, text, id)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteComment removes a comment by id.
func (s *Store) DeleteComment(id int64) error {
	res, err := s.db.Exec(`DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
