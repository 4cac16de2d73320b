package http

import "testing"

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, pg := paginate(items, 3, 10)
	if len(page) != 2 || page[0] != 4 || pg.Total != 5 {
		t.Errorf("unexpected page %v %+v", page, pg)
	}

	page, _ = paginate(items, 9, 10)
	if page == nil || len(page) != 0 {
		t.Errorf("offset past the end should give an empty page, got %v", page)
	}
}

func TestETagMatches(t *testing.T) {
	etag := weakETag([]byte("(0, 0)\n(1, 1)\n"))

	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{etag, true},
		{"*", true},
		{`W/"0000", ` + etag, true},
		{etag[2:], true}, // strong form of the same tag
		{`W/"0000"`, false},
	}
	for _, tc := range tests {
		if got := etagMatches(tc.header, etag); got != tc.want {
			t.Errorf("etagMatches(%q) = %v, want %v", tc.header, got, tc.want)
		}
	}
}
