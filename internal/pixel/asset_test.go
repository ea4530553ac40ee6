package pixel

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestAssetIsTransparentGIF(t *testing.T) {
	if !bytes.HasPrefix(Asset, []byte("GIF89a")) {
		t.Error("asset should start with the GIF89a signature")
	}
	if Asset[len(Asset)-1] != 0x3b {
		t.Error("asset should end with a GIF trailer byte")
	}
	if len(Asset) != 43 {
		t.Errorf("expected 43 bytes, got %d", len(Asset))
	}
}

func TestEnsureOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracking_pixel.gif")

	if err := EnsureOnDisk(path); err != nil {
		t.Fatalf("EnsureOnDisk error: %v", err)
	}
	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read asset: %v", err)
	}
	if !bytes.Equal(written, Asset) {
		t.Error("file on disk should match the embedded asset")
	}

	// Second call must leave an existing file alone.
	if err := os.WriteFile(path, []byte("sentinel"), 0o644); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := EnsureOnDisk(path); err != nil {
		t.Fatalf("EnsureOnDisk error: %v", err)
	}
	kept, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read asset: %v", err)
	}
	if string(kept) != "sentinel" {
		t.Error("EnsureOnDisk should not rewrite an existing file")
	}
}
