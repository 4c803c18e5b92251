package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"gestionale/internal/domain"
)

const webRoot = "/uploads"

// AttachmentStore binds meeting file fields to files on disk, one
// subdirectory per attachment kind. Stored paths are web-relative
// (/uploads/<dir>/<name>) so the client can link them directly.
type AttachmentStore struct {
	root string
}

func NewAttachmentStore(root string) (*AttachmentStore, error) {
	for _, kind := range []domain.AttachmentKind{domain.AttachmentVerbale, domain.AttachmentDocumenti} {
		err := os.MkdirAll(filepath.Join(root, dirFor(kind)), 0o755)
		if err != nil {
			return nil, errors.Wrap(err, "creating upload directory")
		}
	}
	return &AttachmentStore{root: root}, nil
}

// Save writes content under the directory for kind and returns the
// web-relative path. Write failures propagate to the caller.
func (s *AttachmentStore) Save(kind domain.AttachmentKind, content io.Reader, originalName string, dateHint string) (string, error) {
	name := StoredName(kind, originalName, dateHint)
	dir := dirFor(kind)

	dst, err := os.Create(filepath.Join(s.root, dir, name))
	if err != nil {
		return "", errors.Wrap(err, "creating attachment file")
	}
	defer dst.Close()

	_, err = io.Copy(dst, content)
	if err != nil {
		return "", errors.Wrap(err, "writing attachment file")
	}

	return path.Join(webRoot, dir, name), nil
}

// Replace deletes the file at oldPath (best-effort) and then saves the
// new content as Save does.
func (s *AttachmentStore) Replace(oldPath string, kind domain.AttachmentKind, content io.Reader, originalName string, dateHint string) (string, error) {
	s.Remove(oldPath)
	return s.Save(kind, content, originalName, dateHint)
}

// Remove deletes the file referenced by a stored web path. An empty
// path or an already-missing file is not an error; cleanup failures
// are logged and swallowed.
func (s *AttachmentStore) Remove(webPath string) {
	if strings.TrimSpace(webPath) == "" {
		return
	}
	rel := strings.TrimPrefix(webPath, webRoot+"/")
	full := filepath.Join(s.root, filepath.FromSlash(rel))

	err := os.Remove(full)
	if err != nil && !os.IsNotExist(err) {
		slog.Warn(
			"Failed to remove attachment",
			slog.String("path", webPath),
			slog.String("error", err.Error()),
			slog.String("module", "storage"),
		)
	}
}

// StoredName builds {prefix}{DDMMYY}_{suffix}{ext} for an upload.
// dateHint is a YYYY-MM-DD string; today is used when it is absent or
// malformed. The uuid-derived suffix keeps two uploads in the same
// request batch from colliding. The extension is carried over verbatim
// from the original filename.
func StoredName(kind domain.AttachmentKind, originalName string, dateHint string) string {
	day := time.Now()
	if dateHint != "" {
		parsed, err := time.Parse("2006-01-02", dateHint)
		if err == nil {
			day = parsed
		}
	}

	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]

	return fmt.Sprintf("%s%s_%s%s", prefixFor(kind), day.Format("020106"), suffix, filepath.Ext(originalName))
}

func dirFor(kind domain.AttachmentKind) string {
	if kind == domain.AttachmentVerbale {
		return "verbali"
	}
	return "documenti"
}

func prefixFor(kind domain.AttachmentKind) string {
	if kind == domain.AttachmentVerbale {
		return "ver"
	}
	return "doc"
}
