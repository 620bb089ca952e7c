package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrEmptyFile    = errors.New("file is empty")
	ErrFileTooLarge = errors.New("file exceeds size limit")
)

// StoredFile describes content accepted by a FileStore.
type StoredFile struct {
	Key       string
	URL       string
	FileName  string
	MimeType  string
	SizeBytes int64
}

// FileStore persists attachment bytes and hands back a stable reference.
type FileStore interface {
	Save(ctx context.Context, requestID, fileName string, content io.Reader) (*StoredFile, error)
}

// DiskStore writes attachments below a root directory.
type DiskStore struct {
	root     string
	baseURL  string
	maxBytes int64
}

// NewDiskStore creates the root directory if needed.
func NewDiskStore(root, baseURL string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/"), maxBytes: maxBytes}, nil
}

// Root returns the directory files are written to.
func (s *DiskStore) Root() string {
	return s.root
}

// Save stores content as <root>/<requestID>/<random>-<name>.
func (s *DiskStore) Save(ctx context.Context, requestID, fileName string, content io.Reader) (*StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit := s.maxBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	data, err := io.ReadAll(io.LimitReader(content, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > limit {
		return nil, ErrFileTooLarge
	}

	mime := mimetype.Detect(data)
	name := sanitizeFileName(fileName, mime.Extension())
	key := path.Join(sanitizeSegment(requestID), uuid.NewString()[:8]+"-"+name)

	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("create attachment dir: %w", err)
	}
	if err := writeFile(target, data); err != nil {
		return nil, err
	}

	return &StoredFile{
		Key:       key,
		URL:       s.baseURL + "/" + escapeKey(key),
		FileName:  name,
		MimeType:  mime.String(),
		SizeBytes: int64(len(data)),
	}, nil
}

func writeFile(target string, data []byte) error {
	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		_ = f.Close()
		return fmt.Errorf("write attachment: %w", err)
	}
	return f.Close()
}

func sanitizeFileName(name, ext string) string {
	name = sanitizeSegment(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." || name == "_" {
		name = "attachment" + ext
	}
	return name
}

func sanitizeSegment(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.TrimLeft(b.String(), ".")
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
