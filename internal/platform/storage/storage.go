// Package storage persists rendered documents, payment proofs and ledger
// attachments. Objects are addressed by a slash separated name and the
// returned reference is what gets stored on the owning row.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

var ErrInvalidName = errors.New("invalid object name")

// CleanName rejects absolute and parent relative names and normalises the rest.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || strings.HasPrefix(name, "/") {
		return "", ErrInvalidName
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", ErrInvalidName
		}
	}
	return path.Clean(name), nil
}

type Local struct {
	Root string
}

func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, err
	}
	return &Local{Root: root}, nil
}

func (l *Local) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := CleanName(name)
	if err != nil {
		return "", err
	}
	target := filepath.Join(l.Root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", err
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return "file://" + clean, nil
}

func (l *Local) Open(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := CleanName(strings.TrimPrefix(ref, "file://"))
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(l.Root, filepath.FromSlash(clean)))
}

type GCS struct {
	client *gcs.Client
	bucket string
}

// NewGCS uses application default credentials unless credentialsFile is set.
func NewGCS(ctx context.Context, bucket, credentialsFile string) (*GCS, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("GCS_BUCKET is required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("gcs bucket %q not found or not accessible: %w", bucket, err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

func (g *GCS) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return "", err
	}
	wc := g.client.Bucket(g.bucket).Object(clean).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("upload %s: %w", clean, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", clean, err)
	}
	return fmt.Sprintf("gs://%s/%s", g.bucket, clean), nil
}

func (g *GCS) Open(ctx context.Context, ref string) ([]byte, error) {
	clean, err := CleanName(strings.TrimPrefix(ref, fmt.Sprintf("gs://%s/", g.bucket)))
	if err != nil {
		return nil, err
	}
	rc, err := g.client.Bucket(g.bucket).Object(clean).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (g *GCS) Close() error {
	return g.client.Close()
}
