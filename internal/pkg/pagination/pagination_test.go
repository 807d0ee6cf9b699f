package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		page, limit    int
		wantPage       int
		wantLimit      int
		wantOffset     int
	}{
		{1, 20, 1, 20, 0},
		{0, 20, 1, 20, 0},
		{-5, 20, 1, 20, 0},
		{3, 10, 3, 10, 20},
		{1, 0, 1, DefaultLimit, 0},
		{1, 500, 1, MaxLimit, 0},
	}

	for _, tc := range cases {
		p := Normalize(tc.page, tc.limit)
		if p.Page != tc.wantPage || p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
			t.Errorf("Normalize(%d, %d) = {page:%d limit:%d offset:%d}, want {page:%d limit:%d offset:%d}",
				tc.page, tc.limit, p.Page, p.Limit, p.Offset, tc.wantPage, tc.wantLimit, tc.wantOffset)
		}
	}
}

func TestGetMeta(t *testing.T) {
	params := Normalize(2, 10)
	meta := GetMeta(params, 25)

	if meta.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", meta.TotalPages)
	}
	if !meta.HasNext {
		t.Error("HasNext = false on page 2 of 3")
	}
	if !meta.HasPrev {
		t.Error("HasPrev = false on page 2")
	}

	last := GetMeta(Normalize(3, 10), 25)
	if last.HasNext {
		t.Error("HasNext = true on the last page")
	}
}

func TestGetMetaExactDivision(t *testing.T) {
	meta := GetMeta(Normalize(1, 10), 30)
	if meta.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", meta.TotalPages)
	}
}
