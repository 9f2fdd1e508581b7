package archive

import (
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
)

// MIMEType is the media type of built archives.
const MIMEType = "application/zip"

// Entry is one file inside an archive.
type Entry struct {
	Name         string
	LastModified time.Time
	Content      string
}

// Build writes entries as a ZIP archive to w, in order.
// Entry names must be unique; a duplicate aborts the archive.
func Build(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	seen := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		if e.Name == "" {
			return fmt.Errorf("archive: entry without name")
		}
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("archive: duplicate entry %q", e.Name)
		}
		seen[e.Name] = struct{}{}

		hdr := &zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: e.LastModified,
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("archive: create %s: %w", e.Name, err)
		}
		if _, err := io.WriteString(fw, e.Content); err != nil {
			return fmt.Errorf("archive: write %s: %w", e.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("archive: finalize: %w", err)
	}
	return nil
}
