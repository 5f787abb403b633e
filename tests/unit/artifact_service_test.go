package unit

import (
	"bytes"
	"context"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"

	artifactservice "github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service"
	domainerrors "github.com/sergeysedoy97/hawkbit/contexts/repository/artifact-service/domain/errors"
)

func TestUploadArtifactHashesContent(t *testing.T) {
	module := artifactservice.NewInMemoryModule([]string{"sm-1"}, nil)
	ctx := context.Background()
	payload := []byte("firmware image payload")

	artifact, err := module.Service.UploadArtifact(ctx, "sm-1", "firmware.bin", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	wantSHA1 := sha1.Sum(payload)
	wantMD5 := md5.Sum(payload)
	if artifact.SHA1 != hex.EncodeToString(wantSHA1[:]) {
		t.Fatalf("sha1 mismatch: %s", artifact.SHA1)
	}
	if artifact.MD5 != hex.EncodeToString(wantMD5[:]) {
		t.Fatalf("md5 mismatch: %s", artifact.MD5)
	}
	if artifact.SizeBytes != int64(len(payload)) {
		t.Fatalf("size mismatch: %d", artifact.SizeBytes)
	}
}

func TestUploadArtifactValidation(t *testing.T) {
	module := artifactservice.NewInMemoryModule([]string{"sm-1"}, nil)
	ctx := context.Background()

	if _, err := module.Service.UploadArtifact(ctx, "sm-404", "a.bin", strings.NewReader("x")); !errors.Is(err, domainerrors.ErrModuleUnknown) {
		t.Fatalf("unknown module: expected module unknown, got %v", err)
	}
	if _, err := module.Service.UploadArtifact(ctx, "sm-1", "  ", strings.NewReader("x")); !errors.Is(err, domainerrors.ErrInvalidArtifact) {
		t.Fatalf("blank filename: expected invalid artifact, got %v", err)
	}

	if _, err := module.Service.UploadArtifact(ctx, "sm-1", "a.bin", strings.NewReader("one")); err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if _, err := module.Service.UploadArtifact(ctx, "sm-1", "a.bin", strings.NewReader("two")); !errors.Is(err, domainerrors.ErrArtifactExists) {
		t.Fatalf("same filename on module: expected conflict, got %v", err)
	}
}

func TestIdenticalContentSharesBlobAcrossNames(t *testing.T) {
	module := artifactservice.NewInMemoryModule([]string{"sm-1", "sm-2"}, nil)
	ctx := context.Background()
	payload := "shared payload"

	first, err := module.Service.UploadArtifact(ctx, "sm-1", "a.bin", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("first upload failed: %v", err)
	}
	second, err := module.Service.UploadArtifact(ctx, "sm-2", "b.bin", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("second upload failed: %v", err)
	}
	if first.SHA1 != second.SHA1 {
		t.Fatalf("identical content must share a digest: %s vs %s", first.SHA1, second.SHA1)
	}

	matches, err := module.Service.FindBySHA1(ctx, strings.ToUpper(first.SHA1))
	if err != nil {
		t.Fatalf("find by sha1 failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected both artifacts for the digest, got %d", len(matches))
	}
}

func TestOpenStreamReturnsIndependentReaders(t *testing.T) {
	module := artifactservice.NewInMemoryModule([]string{"sm-1"}, nil)
	ctx := context.Background()
	payload := "stream me twice"

	artifact, err := module.Service.UploadArtifact(ctx, "sm-1", "a.bin", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		stream, got, err := module.Service.OpenStream(ctx, artifact.ArtifactID)
		if err != nil {
			t.Fatalf("open stream %d failed: %v", i, err)
		}
		data, err := io.ReadAll(stream)
		if err != nil {
			t.Fatalf("read stream %d failed: %v", i, err)
		}
		if err := stream.Close(); err != nil {
			t.Fatalf("close stream %d failed: %v", i, err)
		}
		if string(data) != payload {
			t.Fatalf("stream %d corrupted: %q", i, data)
		}
		if got.ArtifactID != artifact.ArtifactID {
			t.Fatalf("stream %d returned wrong artifact: %+v", i, got)
		}
	}
}

func TestDeleteArtifactCollectsUnreferencedBlob(t *testing.T) {
	module := artifactservice.NewInMemoryModule([]string{"sm-1", "sm-2"}, nil)
	ctx := context.Background()
	payload := "shared payload"

	first, err := module.Service.UploadArtifact(ctx, "sm-1", "a.bin", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("first upload failed: %v", err)
	}
	second, err := module.Service.UploadArtifact(ctx, "sm-2", "b.bin", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("second upload failed: %v", err)
	}

	// The blob survives while a sibling artifact still references it.
	if err := module.Service.DeleteArtifact(ctx, first.ArtifactID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	stream, _, err := module.Service.OpenStream(ctx, second.ArtifactID)
	if err != nil {
		t.Fatalf("blob collected too early: %v", err)
	}
	stream.Close()

	// The last reference going away collects the blob.
	if err := module.Service.DeleteArtifact(ctx, second.ArtifactID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, _, err := module.Service.OpenStream(ctx, second.ArtifactID); !errors.Is(err, domainerrors.ErrArtifactNotFound) {
		t.Fatalf("expected artifact gone, got %v", err)
	}
	if err := module.Service.DeleteArtifact(ctx, second.ArtifactID); !errors.Is(err, domainerrors.ErrArtifactNotFound) {
		t.Fatalf("repeat delete: expected not found, got %v", err)
	}
}

func TestListArtifactsByModule(t *testing.T) {
	module := artifactservice.NewInMemoryModule([]string{"sm-1", "sm-2"}, nil)
	ctx := context.Background()

	if _, err := module.Service.UploadArtifact(ctx, "sm-1", "a.bin", strings.NewReader("a")); err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if _, err := module.Service.UploadArtifact(ctx, "sm-1", "b.bin", strings.NewReader("b")); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	items, err := module.Service.ListArtifactsByModule(ctx, "sm-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected two artifacts, got %d", len(items))
	}

	items, err = module.Service.ListArtifactsByModule(ctx, "sm-2")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty listing, got %d", len(items))
	}
	if _, err := module.Service.ListArtifactsByModule(ctx, "ghost"); !errors.Is(err, domainerrors.ErrModuleUnknown) {
		t.Fatalf("unknown module: expected module unknown, got %v", err)
	}
}
