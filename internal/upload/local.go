package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalDir writes objects below a directory that the router serves statically.
type LocalDir struct {
	root       string
	publicPath string
}

func NewLocalDir(root, publicPath string) (*LocalDir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalDir{root: root, publicPath: "/" + strings.Trim(publicPath, "/")}, nil
}

func (d *LocalDir) Root() string { return d.root }

func (d *LocalDir) PublicPath() string { return d.publicPath }

func (d *LocalDir) Put(ctx context.Context, path string, r io.Reader, _ int64, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Clean("/" + path)
	dst := filepath.Join(d.root, clean)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return d.publicPath + filepath.ToSlash(clean), nil
}
