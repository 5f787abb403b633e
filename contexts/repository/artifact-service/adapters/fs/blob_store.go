package fs

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"

	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/domain/errors"
	"github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/ports"
)

// BlobStore keeps payloads on disk in a content-addressed layout:
// <root>/<sha1[0:2]>/<sha1>. Writes go to a temp file first and are renamed
// into place once the hash is known, so a partially written payload is
// never visible under its final name.
type BlobStore struct {
	root string
}

func NewBlobStore(root string) (*BlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &BlobStore{root: root}, nil
}

func (b *BlobStore) path(sha string) string {
	return filepath.Join(b.root, sha[:2], sha)
}

func (b *BlobStore) Store(_ context.Context, content io.Reader) (ports.StoredBlob, error) {
	tmp, err := os.CreateTemp(b.root, "upload-*")
	if err != nil {
		return ports.StoredBlob{}, err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	sha := sha1.New()
	sum := md5.New()
	size, err := io.Copy(io.MultiWriter(sha, sum, tmp), content)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return ports.StoredBlob{}, err
	}

	blob := ports.StoredBlob{
		SHA1:      hex.EncodeToString(sha.Sum(nil)),
		MD5:       hex.EncodeToString(sum.Sum(nil)),
		SizeBytes: size,
	}

	final := b.path(blob.SHA1)
	if _, err := os.Stat(final); err == nil {
		// Identical content already stored.
		return blob, nil
	}
	if err := os.MkdirAll(filepath.Dir(final), 0o755); err != nil {
		return ports.StoredBlob{}, err
	}
	if err := os.Rename(tmpName, final); err != nil {
		return ports.StoredBlob{}, err
	}
	return blob, nil
}

func (b *BlobStore) Open(_ context.Context, sha string) (io.ReadCloser, error) {
	if len(sha) < 2 {
		return nil, domainerrors.ErrBlobNotFound
	}
	file, err := os.Open(b.path(sha))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domainerrors.ErrBlobNotFound
		}
		return nil, err
	}
	return file, nil
}

func (b *BlobStore) Delete(_ context.Context, sha string) error {
	if len(sha) < 2 {
		return domainerrors.ErrBlobNotFound
	}
	err := os.Remove(b.path(sha))
	if errors.Is(err, os.ErrNotExist) {
		return domainerrors.ErrBlobNotFound
	}
	return err
}
