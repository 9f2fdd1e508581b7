package lottie

import (
	"errors"
	"testing"
	"time"
)

const sample = `{"v":"5.7.4","nm":"bounce","fr":30,"ip":0,"op":60,"w":512,"h":256,"ddd":0,
"layers":[{"ty":4},{"ty":1}],"assets":[],"markers":[{"cm":"intro","tm":0,"dr":10}]}`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if doc.Version != "5.7.4" {
		t.Errorf("Version = %q, want %q", doc.Version, "5.7.4")
	}
	if doc.Name != "bounce" {
		t.Errorf("Name = %q, want %q", doc.Name, "bounce")
	}
	if doc.Width != 512 || doc.Height != 256 {
		t.Errorf("size = %vx%v, want 512x256", doc.Width, doc.Height)
	}
	if doc.LayerCount() != 2 {
		t.Errorf("LayerCount() = %d, want 2", doc.LayerCount())
	}
	if len(doc.Markers) != 1 || doc.Markers[0].Comment != "intro" {
		t.Errorf("Markers = %+v, want one intro marker", doc.Markers)
	}
	if string(doc.Raw()) != sample {
		t.Error("Raw() should return the input unchanged")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"truncated", `{"v":"5.7.4","fr":30`},
		{"array", `[1,2,3]`},
		{"string", `"hello"`},
		{"garbage", `not json`},
		{"trailing", `{"fr":30} {"fr":25}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.input)); err == nil {
				t.Errorf("Parse(%q) should fail", tt.input)
			}
		})
	}
}

func TestParseNotObject(t *testing.T) {
	_, err := Parse([]byte(`[]`))
	if !errors.Is(err, ErrNotObject) {
		t.Errorf("Parse([]) error = %v, want ErrNotObject", err)
	}
}

func TestTotalFrames(t *testing.T) {
	tests := []struct {
		name   string
		ip, op float64
		want   int
	}{
		{"whole", 0, 60, 60},
		{"offset", 10, 40, 30},
		{"fractional", 0, 59.5, 59},
		{"empty", 0, 0, 0},
		{"reversed", 30, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Document{InPoint: tt.ip, OutPoint: tt.op}
			if got := d.TotalFrames(); got != tt.want {
				t.Errorf("TotalFrames() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	d := &Document{FrameRate: 30, InPoint: 0, OutPoint: 45}
	if got := d.Duration(); got != 1500*time.Millisecond {
		t.Errorf("Duration() = %v, want 1.5s", got)
	}

	d.FrameRate = 0
	if got := d.Duration(); got != 0 {
		t.Errorf("Duration() without frame rate = %v, want 0", got)
	}
}
