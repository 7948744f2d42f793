// Package blogium is a multi-author blog engine built with Go, Echo, and
// templ: posts grouped into publishable categories, optional locations,
// comment threads, author profiles, and static pages, rendered
// server-side.
//
// Users provide their own templ components via the ViewFuncs struct (a
// minimal built-in theme lives in the views package), and blogium
// handles the handler logic, policies, middleware, and database
// operations.
package blogium

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds user-provided templ components that the engine calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Index    func(page PostPage, siteURL string) templ.Component
	Category func(category Category, page PostPage) templ.Component
	Profile  func(profile User, own bool, page PostPage) templ.Component
	Detail   func(post Post, comments []Comment, form CommentForm, csrfToken string) templ.Component

	PostForm             func(form PostForm, csrfToken string) templ.Component
	PostConfirmDelete    func(post Post, csrfToken string) templ.Component
	CommentForm          func(form CommentForm, csrfToken string) templ.Component
	CommentConfirmDelete func(comment Comment, csrfToken string) templ.Component
	ProfileForm          func(form UserForm, csrfToken string) templ.Component

	Login    func(form LoginForm, csrfToken string) templ.Component
	Register func(form RegisterForm, csrfToken string) templ.Component

	About func() templ.Component
	Rules func() templ.Component

	NotFound    func() templ.Component
	Forbidden   func() templ.Component
	ServerError func() templ.Component
}

// App is the central blogium application. It wires together the store,
// handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Views  ViewFuncs

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new blogium App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, middleware, routes, and starts the server.
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("blogium: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("blogium: init store: %w", err)
	}
	a.Store = store

	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets, including uploaded post images
	e.Static("/public", a.staticDir)

	// Public pages
	e.GET("/", a.handleIndex)
	e.GET("/category/:slug/", a.handleCategory)
	e.GET("/posts/:id/", a.handleDetail)
	e.GET("/profile/:username/", a.handleProfile)
	e.GET("/pages/about/", a.handleAbout)
	e.GET("/pages/rules/", a.handleRules)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Authentication
	e.GET("/auth/login/", a.handleLoginForm)
	e.POST("/auth/login/", a.handleLogin)
	e.POST("/auth/logout/", a.handleLogout)
	e.GET("/auth/registration/", a.handleRegisterForm)
	e.POST("/auth/registration/", a.handleRegister)

	// Authenticated routes. Ownership checks happen inside the handlers;
	// RequireLogin only guarantees a logged-in user reaches them.
	auth := e.Group("", a.RequireLogin)
	auth.GET("/posts/create/", a.handlePostCreateForm)
	auth.POST("/posts/create/", a.handlePostCreate)
	auth.GET("/posts/:id/edit/", a.handlePostEditForm)
	auth.POST("/posts/:id/edit/", a.handlePostEdit)
	auth.GET("/posts/:id/delete/", a.handlePostDeleteForm)
	auth.POST("/posts/:id/delete/", a.handlePostDelete)
	auth.POST("/posts/:id/comment/", a.handleCommentAdd)
	auth.GET("/posts/:id/comments/:comment_id/edit/", a.handleCommentEditForm)
	auth.POST("/posts/:id/comments/:comment_id/edit/", a.handleCommentEdit)
	auth.GET("/posts/:id/comments/:comment_id/delete/", a.handleCommentDeleteForm)
	auth.POST("/posts/:id/comments/:comment_id/delete/", a.handleCommentDelete)
	auth.GET("/profile/edit/", a.handleProfileEditForm)
	auth.POST("/profile/edit/", a.handleProfileEdit)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("blogium: required environment variable %s is not set", key)
	}
	return v
}
