package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("zero limit should default, got %d", got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("negative limit should default, got %d", got)
	}
	if got := NormalizeLimit(1000); got != MaxLimit {
		t.Fatalf("oversized limit should cap, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("valid limit should pass through, got %d", got)
	}
}

func TestNormalize(t *testing.T) {
	p := Params{Limit: -1, Offset: -10}.Normalize()
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Fatalf("unexpected normalized params %+v", p)
	}
}

func TestNewPageNilItems(t *testing.T) {
	page := NewPage[string](nil, 0, Params{Limit: 10})
	if page.Items == nil {
		t.Fatal("items should never be nil")
	}
}
