package handlers

import "testing"

func TestIfNoneMatchMatches(t *testing.T) {
	const etag = `"abc"`

	tests := []struct {
		header string
		want   bool
	}{
		{header: "", want: false},
		{header: `"abc"`, want: true},
		{header: `W/"abc"`, want: true},
		{header: `"zzz", "abc"`, want: true},
		{header: " * ", want: true},
		{header: `"zzz"`, want: false},
		{header: `abc`, want: false},
	}

	for _, tt := range tests {
		if got := ifNoneMatchMatches(tt.header, etag); got != tt.want {
			t.Errorf("ifNoneMatchMatches(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestEtagFor(t *testing.T) {
	a := etagFor([]byte(`[{"id":1}]`))
	b := etagFor([]byte(`[{"id":1}]`))
	c := etagFor([]byte(`[{"id":2}]`))

	if a != b {
		t.Fatalf("equal bodies produced %s and %s", a, b)
	}
	if a == c {
		t.Fatalf("different bodies produced the same etag %s", a)
	}
	if len(a) != 34 {
		t.Fatalf("etag %s should be 32 hex chars in quotes", a)
	}
}
