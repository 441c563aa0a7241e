package physics

import "testing"

func TestSparseSetLifecycle(t *testing.T) {
	cases := []struct {
		name   string
		ids    []int
		remove []int
		want   map[int]string
	}{
		{"single", []int{1}, nil, map[int]string{1: "v1"}},
		{"remove_middle", []int{1, 2, 3}, []int{2}, map[int]string{1: "v1", 3: "v3"}},
		{"remove_all", []int{4, 9}, []int{9, 4}, map[int]string{}},
		{"remove_missing", []int{2}, []int{7, 0, -1}, map[int]string{2: "v2"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var s SparseSet[string]
			for _, id := range c.ids {
				s.Set(id, "v"+string(rune('0'+id)))
			}
			for _, id := range c.remove {
				s.Remove(id)
			}
			if s.Len() != len(c.want) {
				t.Fatalf("expected %d values, got %d", len(c.want), s.Len())
			}
			for id, want := range c.want {
				got, ok := s.Get(id)
				if !ok || got != want {
					t.Fatalf("id %d: expected %q, got %q ok=%v", id, want, got, ok)
				}
			}
			for _, id := range c.remove {
				if s.Has(id) {
					t.Fatalf("id %d should be gone", id)
				}
			}
		})
	}
}

func TestSparseSetOverwrite(t *testing.T) {
	var s SparseSet[int]
	s.Set(3, 1)
	s.Set(3, 2)
	if s.Len() != 1 {
		t.Fatalf("expected overwrite to keep one value, got %d", s.Len())
	}
	if v, _ := s.Get(3); v != 2 {
		t.Fatalf("expected 2, got %d", v)
	}
}
