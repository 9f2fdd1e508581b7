package server

import (
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/lottieframes/pkg/archive"
	"github.com/matzehuels/lottieframes/pkg/buildinfo"
	"github.com/matzehuels/lottieframes/pkg/errors"
	"github.com/matzehuels/lottieframes/pkg/exporter"
	"github.com/matzehuels/lottieframes/pkg/render"
	"github.com/matzehuels/lottieframes/pkg/session"
)

// uploadField is the multipart field carrying dropped files.
const uploadField = "files"

// fileView is the API representation of a SourceFile.
type fileView struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	State    string   `json:"state"`
	Captured int      `json:"captured"`
	Total    int      `json:"total"`
	Cached   bool     `json:"cached,omitempty"`
	Captions []string `json:"captions,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func viewOf(f *exporter.SourceFile) fileView {
	captured, total := f.Progress()
	v := fileView{
		ID:       f.ID(),
		Name:     f.Name(),
		State:    f.State().String(),
		Captured: captured,
		Total:    total,
		Cached:   f.Cached(),
	}
	if f.State() == exporter.StateRendered {
		frames := f.Frames()
		for _, fr := range frames {
			v.Captions = append(v.Captions, exporter.Caption(fr.Ordinal, len(frames)))
		}
	}
	if err := f.Err(); err != nil {
		v.Error = errors.UserMessage(err)
	}
	return v
}

type uploadResponse struct {
	Files  []fileView      `json:"files"`
	Errors []errorResponse `json:"errors,omitempty"`
}

type listResponse struct {
	Files   []fileView `json:"files"`
	Failed  []fileView `json:"failed,omitempty"`
	Archive string     `json:"archive,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Create(r.Context())
	if err != nil {
		s.logger.Error("create workspace", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": sess.ID})
}

func (s *Server) handleDeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "workspaceID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// session loads the workspace named in the URL, writing an error response
// when it does not exist.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "workspaceID")
	if !session.ValidID(id) {
		writeError(w, session.ErrNotFound)
		return nil, false
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

// handleUpload registers every uploaded file. Each rejected file is
// reported individually; the request fails only when nothing was accepted.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid upload"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "no files in field %q", uploadField))
		return
	}

	resp := uploadResponse{Files: []fileView{}}
	for _, fh := range headers {
		in, err := exporter.ReadMultipart(fh)
		if err != nil {
			_, body := errorStatus(errors.InvalidFile(fh.Filename, err.Error()))
			resp.Errors = append(resp.Errors, body)
			continue
		}
		f, err := sess.Exporter.Open(sess.Context(), in)
		if err != nil {
			_, body := errorStatus(err)
			resp.Errors = append(resp.Errors, body)
			continue
		}
		resp.Files = append(resp.Files, viewOf(f))
	}

	status := http.StatusAccepted
	if len(resp.Files) == 0 {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	ws := sess.Exporter.Workspace()
	resp := listResponse{Files: []fileView{}}
	for _, f := range ws.Files() {
		resp.Files = append(resp.Files, viewOf(f))
	}
	for _, f := range ws.Failed() {
		resp.Failed = append(resp.Failed, viewOf(f))
	}
	if name, err := sess.Exporter.ArchiveName(); err == nil {
		resp.Archive = name
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleFrame serves frame n of a file as .svg, or rasterized as .png.
// The PNG scale can be set with ?scale=.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	fileID, err := strconv.Atoi(chi.URLParam(r, "fileID"))
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "file %q not found", chi.URLParam(r, "fileID")))
		return
	}
	f, found := sess.Exporter.Workspace().File(fileID)
	if !found {
		writeError(w, errors.New(errors.ErrCodeNotFound, "file %d not found", fileID))
		return
	}

	ordinal, ext, _ := strings.Cut(chi.URLParam(r, "frame"), ".")
	n, err := strconv.Atoi(ordinal)
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "frame %q not found", ordinal))
		return
	}
	frame, err := f.Frame(n)
	if err != nil {
		writeError(w, err)
		return
	}

	switch ext {
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Content-Disposition", contentDisposition("inline", archive.FrameFileName(f.Name(), n)))
		io.WriteString(w, frame.SVG)
	case "png":
		scale := 1.0
		if v := r.URL.Query().Get("scale"); v != "" {
			if scale, err = strconv.ParseFloat(v, 64); err != nil {
				writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v))
				return
			}
		}
		data, err := render.ToPNG(frame.SVG, scale)
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeRender, err, "rasterize frame %d", n))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	default:
		writeError(w, errors.New(errors.ErrCodeUnsupported, "unsupported frame format %q", ext))
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	a, err := sess.Exporter.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	aw := &archiveWriter{w: w, name: a.Name}
	if err := sess.Exporter.Write(r.Context(), a, aw); err != nil {
		if aw.started {
			// Headers are gone; the client sees a truncated archive.
			s.logger.Error("export interrupted", "workspace", sess.ID, "error", err)
			return
		}
		writeError(w, err)
		return
	}
	s.logger.Info("exported", "workspace", sess.ID, "archive", a.Name, "entries", len(a.Entries))
}

// archiveWriter sets the download headers just before the first archive
// byte, so that errors raised earlier can still be sent as JSON.
type archiveWriter struct {
	w       http.ResponseWriter
	name    string
	started bool
}

func (a *archiveWriter) Write(p []byte) (int, error) {
	if !a.started {
		a.started = true
		h := a.w.Header()
		h.Set("Content-Type", archive.MIMEType)
		h.Set("Content-Disposition", contentDisposition("attachment", a.name))
		a.w.WriteHeader(http.StatusOK)
	}
	return a.w.Write(p)
}

func contentDisposition(kind, filename string) string {
	return mime.FormatMediaType(kind, map[string]string{"filename": filename})
}
