package exporter

import "sync"

// Workspace is the ordered working set of one session. Files are appended
// in registration order; a file that fails after registration leaves the
// working set and is kept in the failed list instead.
type Workspace struct {
	mu     sync.RWMutex
	nextID int
	files  []*SourceFile
	failed []*SourceFile
}

// NewWorkspace returns an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{}
}

// Len is the number of files in the working set. Export is possible
// whenever it is positive.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.files)
}

// Files returns the working set in registration order.
func (w *Workspace) Files() []*SourceFile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*SourceFile(nil), w.files...)
}

// Failed returns files that were registered but later failed.
func (w *Workspace) Failed() []*SourceFile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*SourceFile(nil), w.failed...)
}

// File looks up a file of the working set by ID.
func (w *Workspace) File(id int) (*SourceFile, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, f := range w.files {
		if f.id == id {
			return f, true
		}
	}
	return nil, false
}

// all returns every registered file, failed ones included.
func (w *Workspace) all() []*SourceFile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*SourceFile, 0, len(w.files)+len(w.failed))
	out = append(out, w.files...)
	return append(out, w.failed...)
}

func (w *Workspace) register(name, mediaType string) *SourceFile {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	f := newSourceFile(w.nextID, name, mediaType)
	w.files = append(w.files, f)
	return f
}

// drop moves f from the working set to the failed list.
func (w *Workspace) drop(f *SourceFile) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, g := range w.files {
		if g == f {
			w.files = append(w.files[:i], w.files[i+1:]...)
			w.failed = append(w.failed, f)
			return
		}
	}
}
