package pagination

import "testing"

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 5, 5},
		{5, 0, 0},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.size); got != tc.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	t.Run("middle page", func(t *testing.T) {
		p := Slice(items, 2, 3)
		if p.Page != 2 || p.TotalPages != 3 || p.TotalItems != 7 {
			t.Fatalf("unexpected metadata: %+v", p)
		}
		if len(p.Data) != 3 || p.Data[0] != 4 || p.Data[2] != 6 {
			t.Errorf("unexpected data: %v", p.Data)
		}
	})

	t.Run("last partial page", func(t *testing.T) {
		p := Slice(items, 3, 3)
		if len(p.Data) != 1 || p.Data[0] != 7 {
			t.Errorf("unexpected data: %v", p.Data)
		}
	})

	t.Run("page beyond range clamps to last", func(t *testing.T) {
		p := Slice(items, 99, 3)
		if p.Page != 3 || len(p.Data) != 1 {
			t.Errorf("expected clamp to page 3, got %+v", p)
		}
	})

	t.Run("page below range clamps to first", func(t *testing.T) {
		p := Slice(items, -4, 3)
		if p.Page != 1 || p.Data[0] != 1 {
			t.Errorf("expected clamp to page 1, got %+v", p)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		p := Slice([]int{}, 5, 10)
		if p.Page != 1 || p.TotalPages != 0 || len(p.Data) != 0 || p.Data == nil {
			t.Errorf("unexpected empty page: %+v", p)
		}
	})

	t.Run("pages reconstruct the list", func(t *testing.T) {
		var all []int
		first := Slice(items, 1, 2)
		for page := 1; page <= first.TotalPages; page++ {
			p := Slice(items, page, 2)
			if len(p.Data) > 2 {
				t.Fatalf("page %d has %d items", page, len(p.Data))
			}
			all = append(all, p.Data...)
		}
		if len(all) != len(items) {
			t.Fatalf("expected %d items, got %d", len(items), len(all))
		}
		for i := range items {
			if all[i] != items[i] {
				t.Errorf("position %d: expected %d, got %d", i, items[i], all[i])
			}
		}
	})

	t.Run("slice does not alias input", func(t *testing.T) {
		p := Slice(items, 1, 2)
		p.Data[0] = 100
		if items[0] != 1 {
			t.Error("expected input to be untouched")
		}
	})
}
