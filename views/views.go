// Package views is the minimal built-in theme for blogium. Every page is
// a templ.Component assembled in plain Go; replace any of them through
// blogium.ViewFuncs to bring your own templates.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/blogium"
)

// Default returns the built-in theme wired into a ViewFuncs struct.
func Default() blogium.ViewFuncs {
	return blogium.ViewFuncs{
		Index:    Index,
		Category: Category,
		Profile:  Profile,
		Detail:   Detail,

		PostForm:             PostForm,
		PostConfirmDelete:    PostConfirmDelete,
		CommentForm:          CommentForm,
		CommentConfirmDelete: CommentConfirmDelete,
		ProfileForm:          ProfileForm,

		Login:    Login,
		Register: Register,

		About: About,
		Rules: Rules,

		NotFound:    NotFound,
		Forbidden:   Forbidden,
		ServerError: ServerError,
	}
}

// Index renders the public post listing.
func Index(page blogium.PostPage, siteURL string) templ.Component {
	return layout("Latest posts", func(b *builder) {
		b.raw(`<h1>Latest posts</h1>`)
		postList(b, page.Posts)
		pagination(b, "/", page)
	})
}

// Category renders one category's visible posts.
func Category(category blogium.Category, page blogium.PostPage) templ.Component {
	return layout(category.Title, func(b *builder) {
		b.raw(`<h1>`)
		b.esc(category.Title)
		b.raw(`</h1>`)
		if category.Description != "" {
			b.raw(`<p class="category-description">`)
			b.esc(category.Description)
			b.raw(`</p>`)
		}
		postList(b, page.Posts)
		pagination(b, "/category/"+category.Slug+"/", page)
	})
}

// Profile renders an author's page; the owner also sees edit links and
// hidden posts (marked as such by postList).
func Profile(profile blogium.User, own bool, page blogium.PostPage) templ.Component {
	return layout(profile.DisplayName(), func(b *builder) {
		b.raw(`<h1>`)
		b.esc(profile.DisplayName())
		b.raw(`</h1><p class="profile-username">@`)
		b.esc(profile.Username)
		b.raw(`</p>`)
		if own {
			b.raw(`<p><a href="/profile/edit/">Edit profile</a> · <a href="/posts/create/">New post</a></p>`)
		}
		postList(b, page.Posts)
		pagination(b, "/profile/"+profile.Username+"/", page)
	})
}

// Detail renders a single post with its comment thread and a blank
// comment form.
func Detail(post blogium.Post, comments []blogium.Comment, form blogium.CommentForm, csrfToken string) templ.Component {
	return layout(post.Title, func(b *builder) {
		b.raw(`<article class="post">`)
		b.raw(`<h1>`)
		b.esc(post.Title)
		b.raw(`</h1>`)
		postMeta(b, post)
		if post.Image != "" {
			b.raw(`<img src="`)
			b.esc(blogium.ImageURL(post.Image))
			b.raw(`" alt="">`)
		}
		paragraphs(b, post.Text)
		b.raw(`</article>`)

		b.f(`<section class="comments"><h2>Comments (%d)</h2>`, len(comments))
		for _, cm := range comments {
			b.f(`<div class="comment" id="comment-%d"><p class="comment-meta">`, cm.ID)
			b.esc(cm.Author)
			b.raw(` · `)
			b.esc(cm.CreatedAt.Format("2 Jan 2006 15:04"))
			b.f(` · <a href="/posts/%d/comments/%d/edit/">edit</a> · <a href="/posts/%d/comments/%d/delete/">delete</a></p>`,
				cm.PostID, cm.ID, cm.PostID, cm.ID)
			paragraphs(b, cm.Text)
			b.raw(`</div>`)
		}
		b.f(`<form method="post" action="/posts/%d/comment/">`, post.ID)
		csrf(b, csrfToken)
		fieldError(b, form.Errors, "text")
		b.raw(`<textarea name="text" rows="5" required>`)
		b.esc(form.Text)
		b.raw(`</textarea><button type="submit">Add comment</button></form></section>`)
	})
}

// PostForm renders the create/edit form for a post.
func PostForm(form blogium.PostForm, csrfToken string) templ.Component {
	title := "New post"
	action := "/posts/create/"
	if form.PostID != 0 {
		title = "Edit post"
		action = fmt.Sprintf("/posts/%d/edit/", form.PostID)
	}
	return layout(title, func(b *builder) {
		b.raw(`<h1>`)
		b.esc(title)
		b.raw(`</h1><form method="post" action="`)
		b.esc(action)
		b.raw(`" enctype="multipart/form-data">`)
		csrf(b, csrfToken)

		fieldError(b, form.Errors, "title")
		b.raw(`<label>Title <input type="text" name="title" value="`)
		b.esc(form.Title)
		b.raw(`" required></label>`)

		fieldError(b, form.Errors, "text")
		b.raw(`<label>Text <textarea name="text" rows="12" required>`)
		b.esc(form.Text)
		b.raw(`</textarea></label>`)

		fieldError(b, form.Errors, "pub_date")
		b.raw(`<label>Publish at <input type="datetime-local" name="pub_date" value="`)
		b.esc(form.PubDate)
		b.raw(`"></label>`)

		fieldError(b, form.Errors, "category")
		b.raw(`<label>Category <select name="category"><option value="">—</option>`)
		for _, cat := range form.Categories {
			b.f(`<option value="%d"`, cat.ID)
			if cat.ID == form.CategoryID {
				b.raw(` selected`)
			}
			b.raw(`>`)
			b.esc(cat.Title)
			b.raw(`</option>`)
		}
		b.raw(`</select></label>`)

		b.raw(`<label>Location <select name="location"><option value="">—</option>`)
		for _, loc := range form.Locations {
			b.f(`<option value="%d"`, loc.ID)
			if loc.ID == form.LocationID {
				b.raw(` selected`)
			}
			b.raw(`>`)
			b.esc(loc.Name)
			b.raw(`</option>`)
		}
		b.raw(`</select></label>`)

		fieldError(b, form.Errors, "image")
		b.raw(`<label>Image <input type="file" name="image" accept="image/*"></label>`)
		if form.Image != "" {
			b.raw(`<p class="current-image">Current image: `)
			b.esc(form.Image)
			b.raw(`</p>`)
		}

		b.raw(`<label><input type="checkbox" name="published" value="1"`)
		if form.Published {
			b.raw(` checked`)
		}
		b.raw(`> Published</label><button type="submit">Save</button></form>`)
	})
}

// PostConfirmDelete asks for confirmation before deleting a post.
func PostConfirmDelete(post blogium.Post, csrfToken string) templ.Component {
	return layout("Delete post", func(b *builder) {
		b.raw(`<h1>Delete post</h1><p>Delete “`)
		b.esc(post.Title)
		b.raw(`” and all of its comments?</p>`)
		b.f(`<form method="post" action="/posts/%d/delete/">`, post.ID)
		csrf(b, csrfToken)
		b.f(`<button type="submit">Delete</button> <a href="/posts/%d/">Cancel</a></form>`, post.ID)
	})
}

// CommentForm renders the standalone comment edit form.
func CommentForm(form blogium.CommentForm, csrfToken string) templ.Component {
	return layout("Edit comment", func(b *builder) {
		b.raw(`<h1>Edit comment</h1>`)
		b.f(`<form method="post" action="/posts/%d/comments/%d/edit/">`, form.PostID, form.CommentID)
		csrf(b, csrfToken)
		fieldError(b, form.Errors, "text")
		b.raw(`<textarea name="text" rows="5" required>`)
		b.esc(form.Text)
		b.f(`</textarea><button type="submit">Save</button> <a href="/posts/%d/">Cancel</a></form>`, form.PostID)
	})
}

// CommentConfirmDelete asks for confirmation before deleting a comment.
func CommentConfirmDelete(comment blogium.Comment, csrfToken string) templ.Component {
	return layout("Delete comment", func(b *builder) {
		b.raw(`<h1>Delete comment</h1>`)
		paragraphs(b, comment.Text)
		b.f(`<form method="post" action="/posts/%d/comments/%d/delete/">`, comment.PostID, comment.ID)
		csrf(b, csrfToken)
		b.f(`<button type="submit">Delete</button> <a href="/posts/%d/">Cancel</a></form>`, comment.PostID)
	})
}

// ProfileForm renders the own-profile edit form.
func ProfileForm(form blogium.UserForm, csrfToken string) templ.Component {
	return layout("Edit profile", func(b *builder) {
		b.raw(`<h1>Edit profile</h1><form method="post" action="/profile/edit/">`)
		csrf(b, csrfToken)
		textInput(b, form.Errors, "username", "Username", form.Username)
		textInput(b, form.Errors, "email", "Email", form.Email)
		textInput(b, form.Errors, "first_name", "First name", form.FirstName)
		textInput(b, form.Errors, "last_name", "Last name", form.LastName)
		b.raw(`<button type="submit">Save</button></form>`)
	})
}

// Login renders the login page.
func Login(form blogium.LoginForm, csrfToken string) templ.Component {
	return layout("Log in", func(b *builder) {
		b.raw(`<h1>Log in</h1>`)
		if form.Failed {
			b.raw(`<p class="error">Wrong username or password.</p>`)
		}
		b.raw(`<form method="post" action="/auth/login/">`)
		csrf(b, csrfToken)
		b.raw(`<label>Username <input type="text" name="username" value="`)
		b.esc(form.Username)
		b.raw(`" required></label><label>Password <input type="password" name="password" required></label><button type="submit">Log in</button></form><p><a href="/auth/registration/">Create an account</a></p>`)
	})
}

// Register renders the registration page.
func Register(form blogium.RegisterForm, csrfToken string) templ.Component {
	return layout("Registration", func(b *builder) {
		b.raw(`<h1>Registration</h1><form method="post" action="/auth/registration/">`)
		csrf(b, csrfToken)
		textInput(b, form.Errors, "username", "Username", form.Username)
		textInput(b, form.Errors, "email", "Email", form.Email)
		textInput(b, form.Errors, "first_name", "First name", form.FirstName)
		textInput(b, form.Errors, "last_name", "Last name", form.LastName)
		fieldError(b, form.Errors, "password")
		b.raw(`<label>Password <input type="password" name="password" required></label><button type="submit">Sign up</button></form>`)
	})
}

// About renders the static about page.
func About() templ.Component {
	return layout("About", func(b *builder) {
		b.raw(`<h1>About</h1><p>Blogium is a small multi-author blog. Anyone can read, registered authors can write.</p>`)
	})
}

// Rules renders the static rules page.
func Rules() templ.Component {
	return layout("Rules", func(b *builder) {
		b.raw(`<h1>Rules</h1><ul><li>Write under your own name.</li><li>Stay on topic within a category.</li><li>Be kind in the comments.</li></ul>`)
	})
}

// NotFound renders the 404 page.
func NotFound() templ.Component {
	return layout("Not found", func(b *builder) {
		b.raw(`<h1>404</h1><p>This page does not exist.</p><p><a href="/">Back to the index</a></p>`)
	})
}

// Forbidden renders the 403 page, also used on CSRF failures.
func Forbidden() templ.Component {
	return layout("Forbidden", func(b *builder) {
		b.raw(`<h1>403</h1><p>Request rejected. Go back, reload the page, and try again.</p>`)
	})
}

// ServerError renders the 500 page.
func ServerError() templ.Component {
	return layout("Server error", func(b *builder) {
		b.raw(`<h1>500</h1><p>Something broke on our side. Try again in a minute.</p>`)
	})
}

// layout wraps a page body in the shared HTML shell.
func layout(title string, body func(*builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &builder{out: w}
		b.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		b.esc(title)
		b.raw(`</title><link rel="stylesheet" href="/public/style.css"></head><body><header><nav><a href="/">Blogium</a> <a href="/pages/about/">About</a> <a href="/pages/rules/">Rules</a></nav></header><main>`)
		body(b)
		b.raw(`</main><footer><p><a href="/feed.xml">RSS</a></p></footer></body></html>`)
		return b.err
	})
}
