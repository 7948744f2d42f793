package blogium

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// FieldErrors maps a form field name to a validation message.
type FieldErrors map[string]string

// pubDateLayout matches the value of an HTML datetime-local input.
const pubDateLayout = "2006-01-02T15:04"

const (
	maxTitleLen   = 255
	maxTextLen    = 20000
	maxCommentLen = 2000
	maxNameLen    = 150
)

// PostForm carries a submitted (or to-be-rendered) post form. Categories
// and Locations populate the pickers; Errors is filled by Validate.
type PostForm struct {
	PostID     int64
	Title      string
	Text       string
	PubDate    string // as submitted, datetime-local format
	Published  bool
	CategoryID int64
	LocationID int64
	Image      string // current image filename, if any

	Categories []Category
	Locations  []Location
	Errors     FieldErrors
}

func parsePostForm(c echo.Context) PostForm {
	categoryID, _ := strconv.ParseInt(c.FormValue("category"), 10, 64)
	locationID, _ := strconv.ParseInt(c.FormValue("location"), 10, 64)
	return PostForm{
		Title:      strings.TrimSpace(c.FormValue("title")),
		Text:       strings.TrimSpace(c.FormValue("text")),
		PubDate:    strings.TrimSpace(c.FormValue("pub_date")),
		Published:  c.FormValue("published") != "",
		CategoryID: categoryID,
		LocationID: locationID,
		Errors:     FieldErrors{},
	}
}

// Validate checks the submitted fields and records messages in Errors.
func (f *PostForm) Validate() bool {
	if f.Errors == nil {
		f.Errors = FieldErrors{}
	}
	if f.Title == "" {
		f.Errors["title"] = "Title is required."
	} else if len(f.Title) > maxTitleLen {
		f.Errors["title"] = "Title must be at most 255 characters."
	}
	if f.Text == "" {
		f.Errors["text"] = "Text is required."
	} else if len(f.Text) > maxTextLen {
		f.Errors["text"] = "Text is too long."
	}
	if f.PubDate == "" {
		f.PubDate = time.Now().UTC().Format(pubDateLayout)
	} else if _, err := time.Parse(pubDateLayout, f.PubDate); err != nil {
		f.Errors["pub_date"] = "Invalid date format."
	}
	if f.CategoryID == 0 {
		f.Errors["category"] = "Category is required."
	}
	return len(f.Errors) == 0
}

// PubDateTime returns the parsed publication time in UTC. Call only
// after a successful Validate.
func (f *PostForm) PubDateTime() time.Time {
	t, _ := time.Parse(pubDateLayout, f.PubDate)
	return t.UTC()
}

// formatPubDate renders a stored publication time back into the form.
func formatPubDate(t time.Time) string {
	return t.UTC().Format(pubDateLayout)
}

// CommentForm carries a comment's text for both the blank form on a
// detail page and the standalone edit page.
type CommentForm struct {
	PostID    int64
	CommentID int64 // 0 when creating
	Text      string
	Errors    FieldErrors
}

func parseCommentForm(c echo.Context) CommentForm {
	return CommentForm{
		Text:   strings.TrimSpace(c.FormValue("text")),
		Errors: FieldErrors{},
	}
}

// Validate checks the comment text and records messages in Errors.
func (f *CommentForm) Validate() bool {
	if f.Errors == nil {
		f.Errors = FieldErrors{}
	}
	if f.Text == "" {
		f.Errors["text"] = "Comment text is required."
	} else if len(f.Text) > maxCommentLen {
		f.Errors["text"] = "Comment must be at most 2000 characters."
	}
	return len(f.Errors) == 0
}

// UserForm carries editable profile fields.
type UserForm struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Errors    FieldErrors
}

func parseUserForm(c echo.Context) UserForm {
	return UserForm{
		Username:  strings.TrimSpace(c.FormValue("username")),
		Email:     strings.TrimSpace(c.FormValue("email")),
		FirstName: strings.TrimSpace(c.FormValue("first_name")),
		LastName:  strings.TrimSpace(c.FormValue("last_name")),
		Errors:    FieldErrors{},
	}
}

// Validate checks the profile fields and records messages in Errors.
func (f *UserForm) Validate() bool {
	if f.Errors == nil {
		f.Errors = FieldErrors{}
	}
	validateUsername(f.Username, f.Errors)
	validateEmail(f.Email, f.Errors)
	if len(f.FirstName) > maxNameLen {
		f.Errors["first_name"] = "First name is too long."
	}
	if len(f.LastName) > maxNameLen {
		f.Errors["last_name"] = "Last name is too long."
	}
	return len(f.Errors) == 0
}

// LoginForm re-renders the login page after a failed attempt.
type LoginForm struct {
	Username string
	Failed   bool
}

// RegisterForm carries a registration submission.
type RegisterForm struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
	Errors    FieldErrors
}

func parseRegisterForm(c echo.Context) RegisterForm {
	return RegisterForm{
		Username:  strings.TrimSpace(c.FormValue("username")),
		Email:     strings.TrimSpace(c.FormValue("email")),
		FirstName: strings.TrimSpace(c.FormValue("first_name")),
		LastName:  strings.TrimSpace(c.FormValue("last_name")),
		Password:  c.FormValue("password"),
		Errors:    FieldErrors{},
	}
}

// Validate checks the registration fields and records messages in Errors.
func (f *RegisterForm) Validate() bool {
	if f.Errors == nil {
		f.Errors = FieldErrors{}
	}
	validateUsername(f.Username, f.Errors)
	validateEmail(f.Email, f.Errors)
	if len(f.Password) < 8 {
		f.Errors["password"] = "Password must be at least 8 characters."
	}
	return len(f.Errors) == 0
}

func validateUsername(username string, errs FieldErrors) {
	if username == "" {
		errs["username"] = "Username is required."
		return
	}
	if len(username) > maxNameLen {
		errs["username"] = "Username is too long."
		return
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			errs["username"] = "Username may contain only letters, digits, and -_."
			return
		}
	}
}

func validateEmail(email string, errs FieldErrors) {
	if email == "" {
		return // optional
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || len(email) > maxTitleLen {
		errs["email"] = "Invalid email address."
	}
}
