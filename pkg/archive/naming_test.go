package archive

import "testing"

func TestEntryName(t *testing.T) {
	tests := []struct {
		filename string
		n        int
		want     string
	}{
		{"anim.json", 1, "anim-frame-1.svg"},
		{"anim.json", 2, "anim-frame-2.svg"},
		{"anim.json", 3, "anim-frame-3.svg"},
		{"my.anim.json", 10, "my.anim-frame-10.svg"},
		{"anim", 1, "anim-frame-1"},
		{"anim.txt", 4, "anim-frame-4.txt"},
		{"anim.svg", 1, "anim-frame-1.svg"},
		{"anim.JSON", 1, "anim-frame-1.JSON"},
		{".json", 1, "-frame-1.svg"},
	}

	for _, tt := range tests {
		if got := EntryName(tt.filename, tt.n); got != tt.want {
			t.Errorf("EntryName(%q, %d) = %q, want %q", tt.filename, tt.n, got, tt.want)
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		first string
		want  string
	}{
		{"foo.json", "foo-frames.zip"},
		{"a.json", "a-frames.zip"},
		{"foo", "foo-frames.zip"},
		{"foo.lottie", "foo.lottie-frames.zip"},
	}

	for _, tt := range tests {
		if got := Name(tt.first); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.first, got, tt.want)
		}
	}
}

func TestNamerUnique(t *testing.T) {
	n := NewNamer()
	got := []string{
		n.Unique("anim.json", 1),
		n.Unique("other.json", 1),
		n.Unique("anim.json", 1),
		n.Unique("anim.json", 1),
		n.Unique("raw", 1),
		n.Unique("raw", 1),
	}
	want := []string{"anim.json", "other.json", "anim-2.json", "anim-3.json", "raw", "raw-2"}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Unique #%d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNamerSkipsTakenSuffix(t *testing.T) {
	n := NewNamer()
	n.Unique("anim-2.json", 1)
	n.Unique("anim.json", 1)

	if got := n.Unique("anim.json", 1); got != "anim-3.json" {
		t.Errorf("Unique = %q, want %q", got, "anim-3.json")
	}
}

func TestNamerEntryClash(t *testing.T) {
	tests := []struct {
		name   string
		first  string
		second string
		frames int
		want   string
	}{
		{"json and svg", "x.json", "x.svg", 2, "x-2.svg"},
		{"json and bare svg stem", "x.json", "x.svg", 1, "x-2.svg"},
		{"no frames never clash", "x.json", "x.svg", 0, "x.svg"},
		{"distinct stems", "x.json", "y.svg", 2, "y.svg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNamer()
			n.Unique(tt.first, 2)
			got := n.Unique(tt.second, tt.frames)
			if got != tt.want {
				t.Fatalf("Unique(%q) = %q, want %q", tt.second, got, tt.want)
			}
			if tt.frames > 0 && EntryName(got, 1) == EntryName(tt.first, 1) {
				t.Errorf("entry %q produced twice", EntryName(got, 1))
			}
		})
	}
}

func TestWithSuffix(t *testing.T) {
	tests := map[string]string{
		"anim.json": "anim-3.json",
		"x.svg":     "x-3.svg",
		"raw":       "raw-3",
		"a.b.json":  "a.b-3.json",
	}
	for in, want := range tests {
		if got := withSuffix(in, 3); got != want {
			t.Errorf("withSuffix(%q, 3) = %q, want %q", in, got, want)
		}
	}
}
