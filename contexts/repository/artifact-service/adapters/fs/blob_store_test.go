package fs

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/domain/errors"
)

func TestBlobStoreRoundTrip(t *testing.T) {
	store, err := NewBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("new blob store failed: %v", err)
	}
	ctx := context.Background()
	payload := []byte("content addressed payload")

	blob, err := store.Store(ctx, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("store failed: %v", err)
	}
	want := sha1.Sum(payload)
	if blob.SHA1 != hex.EncodeToString(want[:]) {
		t.Fatalf("sha1 mismatch: %s", blob.SHA1)
	}
	if blob.SizeBytes != int64(len(payload)) {
		t.Fatalf("size mismatch: %d", blob.SizeBytes)
	}

	stream, err := store.Open(ctx, blob.SHA1)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	stream.Close()
	if !bytes.Equal(data, payload) {
		t.Fatalf("payload corrupted: %q", data)
	}
}

func TestBlobStoreShardsBySHA1Prefix(t *testing.T) {
	root := t.TempDir()
	store, err := NewBlobStore(root)
	if err != nil {
		t.Fatalf("new blob store failed: %v", err)
	}

	blob, err := store.Store(context.Background(), strings.NewReader("sharded"))
	if err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, blob.SHA1[:2], blob.SHA1)); err != nil {
		t.Fatalf("blob not at sharded path: %v", err)
	}
}

func TestBlobStoreDedupesIdenticalContent(t *testing.T) {
	store, err := NewBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("new blob store failed: %v", err)
	}
	ctx := context.Background()

	first, err := store.Store(ctx, strings.NewReader("same bytes"))
	if err != nil {
		t.Fatalf("first store failed: %v", err)
	}
	second, err := store.Store(ctx, strings.NewReader("same bytes"))
	if err != nil {
		t.Fatalf("second store failed: %v", err)
	}
	if first.SHA1 != second.SHA1 {
		t.Fatalf("identical content produced different digests: %s vs %s", first.SHA1, second.SHA1)
	}
}

func TestBlobStoreMissingBlob(t *testing.T) {
	store, err := NewBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("new blob store failed: %v", err)
	}
	ctx := context.Background()
	missing := strings.Repeat("ab", 20)

	if _, err := store.Open(ctx, missing); !errors.Is(err, domainerrors.ErrBlobNotFound) {
		t.Fatalf("open missing blob: expected not found, got %v", err)
	}
	if err := store.Delete(ctx, missing); !errors.Is(err, domainerrors.ErrBlobNotFound) {
		t.Fatalf("delete missing blob: expected not found, got %v", err)
	}

	blob, err := store.Store(ctx, strings.NewReader("to delete"))
	if err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if err := store.Delete(ctx, blob.SHA1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Open(ctx, blob.SHA1); !errors.Is(err, domainerrors.ErrBlobNotFound) {
		t.Fatalf("open deleted blob: expected not found, got %v", err)
	}
}
