package lottie

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"
)

// MIMEType is the only declared media type accepted for Lottie documents.
const MIMEType = "application/json"

// ErrNotObject is returned when valid JSON is not a JSON object.
var ErrNotObject = errors.New("top-level JSON value is not an object")

// Document is the parsed header of a Lottie animation.
type Document struct {
	Version   string            `json:"v"`
	Name      string            `json:"nm"`
	FrameRate float64           `json:"fr"`
	InPoint   float64           `json:"ip"`
	OutPoint  float64           `json:"op"`
	Width     float64           `json:"w"`
	Height    float64           `json:"h"`
	Is3D      int               `json:"ddd"`
	Layers    []json.RawMessage `json:"layers"`
	Assets    []json.RawMessage `json:"assets,omitempty"`
	Markers   []Marker          `json:"markers,omitempty"`

	raw []byte
}

// Marker is a named time range inside an animation.
type Marker struct {
	Comment  string  `json:"cm"`
	Time     float64 `json:"tm"`
	Duration float64 `json:"dr"`
}

// Parse decodes a Lottie document from data.
// data must be a single JSON object; trailing content is rejected.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return nil, invalidJSON(trimmed)
		}
		return nil, ErrNotObject
	}

	var doc Document
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected content after document")
	}

	doc.raw = data
	return &doc, nil
}

// invalidJSON reports the decoder error for malformed input.
func invalidJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return fmt.Errorf("invalid JSON")
}

// Raw returns the document bytes exactly as read.
func (d *Document) Raw() []byte { return d.raw }

// TotalFrames returns the number of frames between the in and out points,
// floor(op - ip), never negative. This is the count lottie-web reports as
// totalFrames for the same document.
func (d *Document) TotalFrames() int {
	n := math.Floor(d.OutPoint - d.InPoint)
	if n <= 0 || math.IsNaN(n) {
		return 0
	}
	return int(n)
}

// Duration returns the playback length at the document's frame rate.
// It is zero when the frame rate is missing or not positive.
func (d *Document) Duration() time.Duration {
	if d.FrameRate <= 0 {
		return 0
	}
	seconds := float64(d.TotalFrames()) / d.FrameRate
	return time.Duration(seconds * float64(time.Second))
}

// LayerCount returns the number of top-level layers.
func (d *Document) LayerCount() int { return len(d.Layers) }
