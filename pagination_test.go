package blogium

import "testing"

func TestTotalPages(t *testing.T) {
	cases := []struct {
		count, perPage, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
	}
	for _, tc := range cases {
		if got := totalPages(tc.count, tc.perPage); got != tc.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tc.count, tc.perPage, got, tc.want)
		}
	}
}

func TestPageOffsetClampsOutOfRange(t *testing.T) {
	limit, offset := pageOffset(25, 99, 10)
	if limit != 10 || offset != 20 {
		t.Errorf("pageOffset(25, 99, 10) = (%d, %d), want (10, 20)", limit, offset)
	}

	limit, offset = pageOffset(25, 0, 10)
	if limit != 10 || offset != 0 {
		t.Errorf("pageOffset(25, 0, 10) = (%d, %d), want (10, 0)", limit, offset)
	}
}

func TestNewPostPage(t *testing.T) {
	page := newPostPage(nil, 25, 2, 10)
	if page.Number != 2 || page.Total != 3 {
		t.Errorf("page = %d/%d, want 2/3", page.Number, page.Total)
	}
	if !page.HasPrev || !page.HasNext {
		t.Errorf("HasPrev/HasNext = %v/%v, want true/true", page.HasPrev, page.HasNext)
	}

	page = newPostPage(nil, 0, 5, 10)
	if page.Number != 1 || page.Total != 1 || page.HasPrev || page.HasNext {
		t.Errorf("empty listing page = %+v, want page 1 of 1 with no links", page)
	}
}
