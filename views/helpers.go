package views

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/eringen/blogium"
)

// builder accumulates HTML output, remembering the first write error so
// page funcs can stay unconditional.
type builder struct {
	out io.Writer
	err error
}

func (b *builder) raw(s string) {
	if b.err != nil {
		return
	}
	_, b.err = io.WriteString(b.out, s)
}

func (b *builder) esc(s string) {
	b.raw(html.EscapeString(s))
}

func (b *builder) f(format string, args ...any) {
	if b.err != nil {
		return
	}
	_, b.err = fmt.Fprintf(b.out, format, args...)
}

// paragraphs renders plain text as escaped <p> blocks split on blank lines.
func paragraphs(b *builder, text string) {
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.raw(`<p>`)
		lines := strings.Split(para, "\n")
		for i, line := range lines {
			if i > 0 {
				b.raw(`<br>`)
			}
			b.esc(line)
		}
		b.raw(`</p>`)
	}
}

// postMeta renders the byline under a post title.
func postMeta(b *builder, p blogium.Post) {
	b.raw(`<p class="post-meta">`)
	b.esc(p.PubDate.Format("2 Jan 2006 15:04"))
	b.raw(` · <a href="/category/` + p.CategorySlug + `/">`)
	b.esc(p.CategoryTitle)
	b.raw(`</a>`)
	if p.LocationName != "" {
		b.raw(` · `)
		b.esc(p.LocationName)
	}
	b.raw(` · <a href="/profile/`)
	b.esc(p.Author)
	b.raw(`/">`)
	b.esc(p.Author)
	b.raw(`</a></p>`)
}

// postList renders listing cards. Posts that are not publicly visible
// only ever reach a listing on the owner's own profile, so they get a
// draft marker instead of being filtered here.
func postList(b *builder, posts []blogium.Post) {
	if len(posts) == 0 {
		b.raw(`<p>No posts yet.</p>`)
		return
	}
	b.raw(`<div class="post-list">`)
	for _, p := range posts {
		b.f(`<article class="post-card"><h2><a href="/posts/%d/">`, p.ID)
		b.esc(p.Title)
		b.raw(`</a></h2>`)
		if !p.Published || !p.CategoryPublished {
			b.raw(`<p class="draft-marker">Hidden</p>`)
		}
		postMeta(b, p)
		b.raw(`<p>`)
		b.esc(blogium.Excerpt(p.Text, 200))
		b.f(`</p><p class="comment-count">%d comments</p></article>`, p.CommentCount)
	}
	b.raw(`</div>`)
}

// pagination renders prev/next links for a listing page.
func pagination(b *builder, base string, page blogium.PostPage) {
	if page.Total <= 1 {
		return
	}
	b.raw(`<nav class="pagination">`)
	if page.HasPrev {
		b.f(`<a href="%s?page=%d">← Newer</a> `, base, page.Number-1)
	}
	b.f(`Page %d of %d`, page.Number, page.Total)
	if page.HasNext {
		b.f(` <a href="%s?page=%d">Older →</a>`, base, page.Number+1)
	}
	b.raw(`</nav>`)
}

// csrf writes the hidden CSRF input every POST form carries.
func csrf(b *builder, token string) {
	b.raw(`<input type="hidden" name="_csrf" value="`)
	b.esc(token)
	b.raw(`">`)
}

// fieldError renders the validation message for one field, if any.
func fieldError(b *builder, errs blogium.FieldErrors, field string) {
	if msg, ok := errs[field]; ok {
		b.raw(`<p class="error">`)
		b.esc(msg)
		b.raw(`</p>`)
	}
}

// textInput renders one labelled text input with its error message.
func textInput(b *builder, errs blogium.FieldErrors, name, label, value string) {
	fieldError(b, errs, name)
	b.raw(`<label>`)
	b.esc(label)
	b.raw(` <input type="text" name="` + name + `" value="`)
	b.esc(value)
	b.raw(`"></label>`)
}
