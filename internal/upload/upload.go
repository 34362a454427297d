// Package upload validates user files and streams them to object storage.
package upload

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/focitech/focitech-backend/internal/apperr"
)

// ObjectStorage is where accepted files end up. Put returns a URL clients can
// use to fetch the object.
type ObjectStorage interface {
	Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) (string, error)
}

const DefaultMaxBytes int64 = 5 << 20

var ResumeExtensions = []string{".pdf", ".doc", ".docx"}

type Uploader struct {
	storage  ObjectStorage
	prefix   string
	maxBytes int64
	allowed  map[string]struct{}

	now   func() time.Time
	newID func() string
}

// NewUploader accepts files with one of exts (lowercase, with dot) up to
// maxBytes and stores them under prefix.
func NewUploader(storage ObjectStorage, prefix string, maxBytes int64, exts ...string) *Uploader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = struct{}{}
	}
	return &Uploader{
		storage:  storage,
		prefix:   strings.Trim(prefix, "/"),
		maxBytes: maxBytes,
		allowed:  allowed,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.NewString()[:8] },
	}
}

// Check validates a file without touching storage.
func (u *Uploader) Check(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		return apperr.InvalidArgument("file is required")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := u.allowed[ext]; !ok {
		return apperr.InvalidArgumentf("file type not allowed. Allowed types: %s", strings.Join(u.extensions(), ", "))
	}
	if size <= 0 {
		return apperr.InvalidArgument("file is empty")
	}
	if size > u.maxBytes {
		return TooLarge(u.maxBytes)
	}
	return nil
}

// MaxBytes is the largest accepted file.
func (u *Uploader) MaxBytes() int64 { return u.maxBytes }

// TooLarge is the error for files over maxBytes.
func TooLarge(maxBytes int64) error {
	return apperr.InvalidArgumentf("file size exceeds %dMB limit", maxBytes>>20)
}

func (u *Uploader) extensions() []string {
	out := make([]string, 0, len(u.allowed))
	for e := range u.allowed {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Upload checks the file, then streams it to storage and returns its URL.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, size int64, filename, contentType string) (string, error) {
	if err := u.Check(filename, size); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	path := u.objectPath(filename)
	url, err := u.storage.Put(ctx, path, io.LimitReader(r, u.maxBytes), size, contentType)
	if err != nil {
		return "", apperr.Internal("failed to store file", fmt.Errorf("put %s: %w", path, err))
	}
	return url, nil
}

// objectPath is <prefix>/<UTC timestamp>_<stem>_<random>.<ext>.
func (u *Uploader) objectPath(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	stem := SanitizeStem(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	name := fmt.Sprintf("%s_%s_%s%s", u.now().Format("20060102T150405Z"), stem, u.newID(), ext)
	if u.prefix == "" {
		return name
	}
	return u.prefix + "/" + name
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

const maxStemLen = 50

// SanitizeStem keeps a filename stem safe for object keys.
func SanitizeStem(stem string) string {
	stem = unsafeChars.ReplaceAllString(strings.TrimSpace(stem), "_")
	stem = strings.Trim(stem, "_")
	if len(stem) > maxStemLen {
		stem = stem[:maxStemLen]
	}
	if stem == "" {
		return "file"
	}
	return stem
}
