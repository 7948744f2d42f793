package blogium

import (
	"strings"
	"testing"
)

func TestPostFormValidate(t *testing.T) {
	f := PostForm{Title: "Hi", Text: "Body", PubDate: "2024-06-01T12:00", CategoryID: 1}
	if !f.Validate() {
		t.Fatalf("valid form rejected: %v", f.Errors)
	}
	if got := f.PubDateTime().Hour(); got != 12 {
		t.Errorf("PubDateTime hour = %d, want 12", got)
	}

	f = PostForm{Text: "Body", CategoryID: 1}
	if f.Validate() {
		t.Error("missing title accepted")
	}
	if f.Errors["title"] == "" {
		t.Error("no error message for title")
	}

	f = PostForm{Title: "Hi", Text: "Body", PubDate: "yesterday", CategoryID: 1}
	if f.Validate() {
		t.Error("unparseable pub date accepted")
	}

	f = PostForm{Title: "Hi", Text: "Body"}
	if f.Validate() {
		t.Error("missing category accepted")
	}

	// An empty pub date defaults to now instead of failing.
	f = PostForm{Title: "Hi", Text: "Body", CategoryID: 1}
	f.Validate()
	if f.PubDate == "" {
		t.Error("empty pub date not defaulted")
	}
}

func TestCommentFormValidate(t *testing.T) {
	f := CommentForm{Text: "fine"}
	if !f.Validate() {
		t.Fatalf("valid comment rejected: %v", f.Errors)
	}

	f = CommentForm{Text: ""}
	if f.Validate() {
		t.Error("empty comment accepted")
	}

	f = CommentForm{Text: strings.Repeat("a", maxCommentLen+1)}
	if f.Validate() {
		t.Error("oversized comment accepted")
	}
}

func TestRegisterFormValidate(t *testing.T) {
	f := RegisterForm{Username: "carol", Password: "long enough"}
	if !f.Validate() {
		t.Fatalf("valid registration rejected: %v", f.Errors)
	}

	f = RegisterForm{Username: "ca rol", Password: "long enough"}
	if f.Validate() {
		t.Error("username with a space accepted")
	}

	f = RegisterForm{Username: "carol", Password: "short"}
	if f.Validate() {
		t.Error("short password accepted")
	}

	f = RegisterForm{Username: "carol", Email: "not-an-email", Password: "long enough"}
	if f.Validate() {
		t.Error("bad email accepted")
	}
}
