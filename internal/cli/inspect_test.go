package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/lottieframes/pkg/errors"
	"github.com/matzehuels/lottieframes/pkg/lottie"
)

func TestInspectRows(t *testing.T) {
	doc, err := lottie.Parse([]byte(`{"v":"5.7.4","nm":"bounce","fr":30,"ip":0,"op":60,"w":512,"h":256,"layers":[{},{}]}`))
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"Name":       "bounce",
		"Version":    "5.7.4",
		"Frame rate": "30 fps",
		"Size":       "512×256",
		"Frames":     "60",
		"Duration":   "2s",
		"Layers":     "2",
	}
	for _, kv := range inspectRows(doc) {
		if w, ok := want[kv[0]]; ok && kv[1] != w {
			t.Errorf("%s = %q, want %q", kv[0], kv[1], w)
		}
	}
}

func TestInspectFileParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := inspectFile(path)
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("inspectFile() error = %v, want PARSE_ERROR", err)
	}
}
