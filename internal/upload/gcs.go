package upload

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"cloud.google.com/go/storage"
)

// openObject returns a writer for one new object.
type openObject func(ctx context.Context, path, contentType string) io.WriteCloser

// FirebaseBucket stores objects in the project's Firebase Storage bucket.
type FirebaseBucket struct {
	open openObject
	name string
}

func NewFirebaseBucket(bucket *storage.BucketHandle, name string) *FirebaseBucket {
	return &FirebaseBucket{
		open: func(ctx context.Context, path, contentType string) io.WriteCloser {
			w := bucket.Object(path).NewWriter(ctx)
			w.ContentType = contentType
			return w
		},
		name: name,
	}
}

// Put returns the Firebase download URL; the object path is one escaped segment.
func (b *FirebaseBucket) Put(ctx context.Context, path string, r io.Reader, _ int64, contentType string) (string, error) {
	w := b.open(ctx, path, contentType)

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object: %w", err)
	}
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media",
		b.name, url.PathEscape(path)), nil
}
