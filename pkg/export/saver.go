package export

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// Saver delivers an assembled document under a filename.
type Saver interface {
	Save(ctx context.Context, filename string, data []byte) error
}

// DirSaver writes documents into a directory. Writes are atomic: the data
// goes to a temporary file that is renamed into place.
type DirSaver struct {
	Dir string
}

// Path returns where filename is saved.
func (s DirSaver) Path(filename string) string {
	return filepath.Join(s.Dir, filename)
}

func (s DirSaver) Save(ctx context.Context, filename string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(s.Dir, "."+filename+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.Path(filename)); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// WriterSaver writes documents to W, ignoring the filename.
type WriterSaver struct {
	W io.Writer
}

func (s WriterSaver) Save(_ context.Context, _ string, data []byte) error {
	_, err := s.W.Write(data)
	return err
}

// ResponseSaver sends documents as an HTTP download.
type ResponseSaver struct {
	W http.ResponseWriter
}

func (s ResponseSaver) Save(_ context.Context, filename string, data []byte) error {
	h := s.W.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	s.W.WriteHeader(http.StatusOK)
	if _, err := s.W.Write(data); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
